package requirements

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MergeKey 食材合并键。两条历史路径行为不同，保留为显式策略：
// 旧的计划页按食材名合并，新的按天汇总按食材ID合并
type MergeKey string

const (
	MergeByName MergeKey = "name"
	MergeByID   MergeKey = "id"
)

// Rounding 订购数取整策略。默认向上取整（宁多勿缺）；
// 商品页的食材预览沿用两位小数四舍五入，是历史口径差异不是bug
type Rounding string

const (
	RoundCeil       Rounding = "ceil"
	RoundTwoDecimal Rounding = "round2"
)

// Options 聚合参数
type Options struct {
	MergeKey MergeKey
	Rounding Rounding
}

// DefaultOptions 旧计划路径的默认口径
func DefaultOptions() Options {
	return Options{MergeKey: MergeByName, Rounding: RoundCeil}
}

// Requirement 每食材的汇总结果（按需计算，不落库；快照除外）
type Requirement struct {
	MaterialID            string          `json:"material_id"`
	MaterialName          string          `json:"material_name"`
	TotalQuantity         decimal.Decimal `json:"total_quantity"`
	TotalWeight           decimal.Decimal `json:"total_weight"`
	WeightPerUnit         decimal.Decimal `json:"weight_per_unit"`
	ConversionType        ConversionType  `json:"conversion_type"`
	RequiredOrderQuantity decimal.Decimal `json:"required_order_quantity"`
	OrderUnitName         string          `json:"order_unit_name"`
	IsGrouped             bool            `json:"is_grouped"`
	DisplayOrder          int             `json:"display_order"`
	PlanNames             []string        `json:"plan_names,omitempty"`
}

// merged 合并中间态
type merged struct {
	material      MaterialRef
	totalQuantity decimal.Decimal
	totalWeight   decimal.Decimal
	weightPerUnit decimal.Decimal
	planNames     []string
	planSeen      map[string]bool
}

// Aggregate 把展开后的贡献合并为每食材的订购需求。
//
// 步骤：按 MergeKey 合并 → 确定换算类型 → 按订购组汇总取整 → 排序。
// 同组食材（如同一条鱼的不同部位）共用一次订购取整；未分组食材自成一组
func Aggregate(contribs []Contribution, opts Options) []Requirement {
	if opts.MergeKey == "" {
		opts.MergeKey = MergeByName
	}
	if opts.Rounding == "" {
		opts.Rounding = RoundCeil
	}

	// Step 1: 按键合并贡献
	byKey := make(map[string]*merged)
	order := make([]string, 0)
	for _, c := range contribs {
		key := c.Material.Name
		if opts.MergeKey == MergeByID {
			key = c.Material.ID
		}

		m, ok := byKey[key]
		if !ok {
			m = &merged{
				material:      c.Material,
				totalQuantity: decimal.Zero,
				totalWeight:   decimal.Zero,
				weightPerUnit: c.WeightPerUnit,
				planSeen:      make(map[string]bool),
			}
			byKey[key] = m
			order = append(order, key)
		}
		m.totalQuantity = m.totalQuantity.Add(c.TotalQuantity)
		m.totalWeight = m.totalWeight.Add(c.TotalWeight)
		if c.PlanName != "" && !m.planSeen[c.PlanName] {
			m.planSeen[c.PlanName] = true
			m.planNames = append(m.planNames, c.PlanName)
		}
	}

	// Step 2: 按订购组汇总。组键：orderGroupID，未分组回退合并键（自成一组）
	type group struct {
		members     []*merged
		totalQty    decimal.Decimal
		totalWeight decimal.Decimal
	}
	groups := make(map[string]*group)
	groupOrder := make([]string, 0)
	for _, key := range order {
		m := byKey[key]
		gkey := m.material.OrderGroupID
		if gkey == "" {
			gkey = "material:" + key
		}
		g, ok := groups[gkey]
		if !ok {
			g = &group{totalQty: decimal.Zero, totalWeight: decimal.Zero}
			groups[gkey] = g
			groupOrder = append(groupOrder, gkey)
		}
		g.members = append(g.members, m)
		g.totalQty = g.totalQty.Add(m.totalQuantity)
		g.totalWeight = g.totalWeight.Add(m.totalWeight)
	}

	// Step 3: 组级换算取整，成员共享组派生的订购数
	results := make([]Requirement, 0, len(byKey))
	for _, gkey := range groupOrder {
		g := groups[gkey]

		// 组内取排序最前且配置了换算的成员作为组的换算基准
		conv := conversionLead(g.members)

		required := decimal.Zero
		convType := ConversionNone
		orderUnitName := ""
		if conv != nil {
			convType = conv.material.ConversionType()
			orderUnitName = conv.material.OrderUnitName
			switch convType {
			case ConversionWeight:
				required = round(g.totalWeight.Div(conv.material.OrderUnitWeight), opts.Rounding)
			case ConversionCount:
				required = round(g.totalQty.Div(decimal.NewFromInt(int64(conv.material.PiecesPerOrderUnit))), opts.Rounding)
			}
		}

		for _, m := range g.members {
			results = append(results, Requirement{
				MaterialID:            m.material.ID,
				MaterialName:          m.material.Name,
				TotalQuantity:         m.totalQuantity,
				TotalWeight:           m.totalWeight,
				WeightPerUnit:         m.weightPerUnit,
				ConversionType:        convType,
				RequiredOrderQuantity: required,
				OrderUnitName:         orderUnitName,
				IsGrouped:             m.material.OrderGroupID != "",
				DisplayOrder:          m.material.DisplayOrder,
				PlanNames:             m.planNames,
			})
		}
	}

	// Step 4: display_order 升序，同序按食材名
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].DisplayOrder != results[j].DisplayOrder {
			return results[i].DisplayOrder < results[j].DisplayOrder
		}
		return results[i].MaterialName < results[j].MaterialName
	})

	return results
}

// conversionLead 选出组内换算基准成员：display_order 最小且配置了换算的优先，
// 全员未配置时返回 nil（组订购数为0）
func conversionLead(members []*merged) *merged {
	var lead *merged
	for _, m := range members {
		if m.material.ConversionType() == ConversionNone {
			continue
		}
		if lead == nil {
			lead = m
			continue
		}
		if m.material.DisplayOrder < lead.material.DisplayOrder ||
			(m.material.DisplayOrder == lead.material.DisplayOrder && m.material.Name < lead.material.Name) {
			lead = m
		}
	}
	return lead
}

func round(v decimal.Decimal, policy Rounding) decimal.Decimal {
	if policy == RoundTwoDecimal {
		return v.Round(2)
	}
	return v.Ceil()
}
