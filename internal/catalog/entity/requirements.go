package entity

import (
	"github.com/chuboware/chubo/internal/planning/requirements"
	"github.com/shopspring/decimal"
)

// RequirementRef 转成聚合引擎的食材视图
func (m *Material) RequirementRef() requirements.MaterialRef {
	ref := requirements.MaterialRef{
		ID:            m.ID,
		Name:          m.Name,
		OrderUnitName: m.OrderUnitName,
		DisplayOrder:  m.DisplayOrder,
	}
	switch m.MeasurementMode {
	case MeasurementCount:
		ref.Mode = requirements.ModeCount
	default:
		ref.Mode = requirements.ModeWeight
	}
	if m.OrderUnitWeight != nil {
		ref.OrderUnitWeight = decimal.NewFromFloat(*m.OrderUnitWeight)
	}
	if m.PiecesPerOrderUnit != nil {
		ref.PiecesPerOrderUnit = *m.PiecesPerOrderUnit
	}
	if m.OrderGroupID != nil {
		ref.OrderGroupID = *m.OrderGroupID
		if m.OrderGroup != nil {
			ref.OrderGroupName = m.OrderGroup.Name
		}
	}
	return ref
}

// RequirementLines 商品配方转成聚合引擎的配方行。
// 食材未预加载的行跳过（调用方负责深加载）
func (p *Product) RequirementLines() []requirements.Line {
	lines := make([]requirements.Line, 0, len(p.Lines))
	for _, l := range p.Lines {
		if l.Material == nil {
			continue
		}
		lines = append(lines, requirements.Line{
			Material:   l.Material.RequirementRef(),
			Quantity:   decimal.NewFromFloat(l.Quantity),
			UnitWeight: decimal.NewFromFloat(l.UnitWeight),
		})
	}
	return lines
}
