package entity

import (
	"time"

	"github.com/chuboware/chubo/internal/planning/requirements"
)

// ScheduleStatus 排程状态
const (
	ScheduleStatusScheduled = "scheduled"
	ScheduleStatusCancelled = "cancelled" // 终态：保留记录但不参与前瞻汇总
)

// PlanSchedule 排程：把一个计划挂到具体日期/门店。
// SnapshotJSON 在排程时冻结当时的商品构成与成本，之后编辑计划不改历史数字；
// 显式「更新商品」操作才会重建快照。
// PlannedRevenue 在首次录入实际营收时从计划的即时预期营收拷贝冻结
type PlanSchedule struct {
	ID              string     `json:"id" gorm:"primaryKey;size:32"`
	CompanyID       string     `json:"company_id" gorm:"size:32;not null;index"`
	StoreID         string     `json:"store_id" gorm:"size:32;not null;index"`
	PlanID          string     `json:"plan_id" gorm:"size:32;not null;index"`
	ScheduledOn     time.Time  `json:"scheduled_on" gorm:"type:date;not null;index"`
	Status          string     `json:"status" gorm:"size:16;not null;default:scheduled"`
	SnapshotJSON    *string    `json:"-" gorm:"type:jsonb"`
	SnapshotAt      *time.Time `json:"snapshot_at,omitempty"`
	PlannedRevenue  *float64   `json:"planned_revenue,omitempty" gorm:"type:numeric(12,2)"` // 冻结的预期营收
	ActualRevenue   *float64   `json:"actual_revenue,omitempty" gorm:"type:numeric(12,2)"`
	RevenueRecorded *time.Time `json:"revenue_recorded,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CreatedBy       string     `json:"created_by" gorm:"size:32;not null"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Relations
	Plan *Plan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
}

func (PlanSchedule) TableName() string {
	return "plan_schedules"
}

// SnapshotProduct 快照里的商品行
type SnapshotProduct struct {
	ProductID       string  `json:"product_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	ProductionCount int     `json:"production_count"`
}

// ScheduleSnapshot 排程快照：商品构成 + 总成本 + 时点食材汇总
type ScheduleSnapshot struct {
	Products  []SnapshotProduct          `json:"products"`
	TotalCost float64                    `json:"total_cost"` // Σ price × production_count
	Materials []requirements.Requirement `json:"materials"`
	TakenAt   time.Time                  `json:"taken_at"`
}
