package entity

import "time"

// MeasurementMode 計量方式
const (
	MeasurementWeight = "weight" // 称重：按克计
	MeasurementCount  = "count"  // 计数：按个计
)

// DefaultDisplayOrder 未设置排序值时的默认值，排在最后
const DefaultDisplayOrder = 9999

// OrderGroup 订购组：一起下单、共用一次订购取整的食材集合
// （如同一条鱼的不同部位按整箱订）
type OrderGroup struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	CompanyID    string    `json:"company_id" gorm:"size:32;not null;index"`
	Name         string    `json:"name" gorm:"size:64;not null"`
	DisplayOrder int       `json:"display_order" gorm:"not null;default:9999"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (OrderGroup) TableName() string {
	return "order_groups"
}

// Material 食材主数据。
// 计量方式二选一：称重食材用 OrderUnitWeight 换算订购数，
// 计数食材用 PiecesPerOrderUnit；另一方的字段计算时忽略
type Material struct {
	ID                 string    `json:"id" gorm:"primaryKey;size:32"`
	CompanyID          string    `json:"company_id" gorm:"size:32;not null;index"`
	Name               string    `json:"name" gorm:"size:128;not null"`
	MeasurementMode    string    `json:"measurement_mode" gorm:"size:16;not null;default:weight"`
	DefaultUnitWeight  float64   `json:"default_unit_weight" gorm:"type:numeric(12,4);default:0"` // 克/商品单位
	OrderUnitWeight    *float64  `json:"order_unit_weight,omitempty" gorm:"type:numeric(12,4)"`   // 克/订购单位（称重）
	PiecesPerOrderUnit *int      `json:"pieces_per_order_unit,omitempty"`                         // 个/订购单位（计数）
	OrderUnitName      string    `json:"order_unit_name,omitempty" gorm:"size:32"`                // 箱/束/パック
	OrderGroupID       *string   `json:"order_group_id,omitempty" gorm:"size:32;index"`
	DisplayOrder       int       `json:"display_order" gorm:"not null;default:9999"`
	Notes              string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedBy          string    `json:"created_by" gorm:"size:32;not null"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Relations
	OrderGroup *OrderGroup `json:"order_group,omitempty" gorm:"foreignKey:OrderGroupID"`
}

func (Material) TableName() string {
	return "materials"
}
