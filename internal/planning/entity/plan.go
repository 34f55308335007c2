package entity

import (
	"time"

	catalog "github.com/chuboware/chubo/internal/catalog/entity"
)

// Plan 生产计划（仕込み企画）：一组商品及各自的生产数
type Plan struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	CompanyID   string    `json:"company_id" gorm:"size:32;not null;index"`
	StoreID     string    `json:"store_id" gorm:"size:32;not null;index"`
	Name        string    `json:"name" gorm:"size:128;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedBy   string    `json:"created_by" gorm:"size:32;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Lines []PlanProductLine `json:"lines,omitempty" gorm:"foreignKey:PlanID"`
}

func (Plan) TableName() string {
	return "plans"
}

// PlanProductLine 计划商品行。(plan, product) 至多一行，
// 保存时后来的重复行胜出（参见 PlanService.SaveLines）
type PlanProductLine struct {
	ID              string    `json:"id" gorm:"primaryKey;size:32"`
	PlanID          string    `json:"plan_id" gorm:"size:32;not null;index"`
	ProductID       string    `json:"product_id" gorm:"size:32;not null;index"`
	ProductionCount int       `json:"production_count" gorm:"not null"` // 生产份数（>0）
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Product *catalog.Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (PlanProductLine) TableName() string {
	return "plan_product_lines"
}
