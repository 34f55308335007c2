package requirements

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MeasurementMode 食材计量方式：称重 or 计数，二者互斥
type MeasurementMode string

const (
	ModeWeight MeasurementMode = "weight"
	ModeCount  MeasurementMode = "count"
)

// ConversionType 订购单位换算类型
type ConversionType string

const (
	ConversionWeight ConversionType = "weight" // 总重量 / 每订购单位重量
	ConversionCount  ConversionType = "count"  // 总数量 / 每订购单位入数
	ConversionNone   ConversionType = "none"   // 未配置换算，订购数为0
)

// DefaultDisplayOrder 未设置排序值的食材排在最后
const DefaultDisplayOrder = 9999

// MaterialRef 聚合引擎看到的食材视图（主数据快照，不含持久化关联）
type MaterialRef struct {
	ID                 string
	Name               string
	Mode               MeasurementMode
	OrderUnitWeight    decimal.Decimal // 克/订购单位（称重时有效）
	PiecesPerOrderUnit int             // 个/订购单位（计数时有效）
	OrderUnitName      string
	OrderGroupID       string // 空 = 不参与合并订购
	OrderGroupName     string
	DisplayOrder       int
}

// ConversionType 返回该食材的换算类型。
// 两种模式的换算系数都未配置时视为 none，不报错（目录允许半配置食材存在）
func (m MaterialRef) ConversionType() ConversionType {
	switch m.Mode {
	case ModeWeight:
		if m.OrderUnitWeight.IsPositive() {
			return ConversionWeight
		}
	case ModeCount:
		if m.PiecesPerOrderUnit > 0 {
			return ConversionCount
		}
	}
	return ConversionNone
}

// Line 商品配方行：每一份商品消耗多少食材。
// UnitWeight 是建行时从食材主数据拷贝的快照，此后主数据变更不影响历史配方
type Line struct {
	Material   MaterialRef
	Quantity   decimal.Decimal // 每份商品用量（>0）
	UnitWeight decimal.Decimal // 单位重量快照，克（>0）
}

// Contribution 一条配方行按生产数展开后的食材贡献
type Contribution struct {
	Material      MaterialRef
	TotalQuantity decimal.Decimal
	WeightPerUnit decimal.Decimal
	TotalWeight   decimal.Decimal
	PlanName      string
}

// ExpandProduct 把一个商品的配方按生产数展开为食材贡献列表。
// 纯函数。productionCount 必须为正，模型层校验的兜底检查
func ExpandProduct(lines []Line, productionCount int, planName string) ([]Contribution, error) {
	if productionCount <= 0 {
		return nil, fmt.Errorf("production count must be positive, got %d", productionCount)
	}

	n := decimal.NewFromInt(int64(productionCount))
	contribs := make([]Contribution, 0, len(lines))
	for _, line := range lines {
		contribs = append(contribs, Contribution{
			Material:      line.Material,
			TotalQuantity: line.Quantity.Mul(n),
			WeightPerUnit: line.UnitWeight,
			TotalWeight:   line.Quantity.Mul(line.UnitWeight).Mul(n),
			PlanName:      planName,
		})
	}
	return contribs, nil
}
