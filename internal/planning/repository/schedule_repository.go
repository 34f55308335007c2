package repository

import (
	"context"
	"time"

	"github.com/chuboware/chubo/internal/planning/entity"
	"gorm.io/gorm"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create 创建排程
func (r *ScheduleRepository) Create(ctx context.Context, s *entity.PlanSchedule) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindByID 按ID查找排程（公司内）
func (r *ScheduleRepository) FindByID(ctx context.Context, companyID, id string) (*entity.PlanSchedule, error) {
	var s entity.PlanSchedule
	err := r.db.WithContext(ctx).
		Preload("Plan").
		First(&s, "id = ? AND company_id = ?", id, companyID).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &s, nil
}

// ListByDate 某门店某天的排程，含已取消（调用方自行過滤）。
// 计划到食材层深加载，供按天汇总用
func (r *ScheduleRepository) ListByDate(ctx context.Context, companyID, storeID string, date time.Time) ([]entity.PlanSchedule, error) {
	var schedules []entity.PlanSchedule
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Preload("Plan.Lines").
		Preload("Plan.Lines.Product").
		Preload("Plan.Lines.Product.Lines").
		Preload("Plan.Lines.Product.Lines.Material").
		Preload("Plan.Lines.Product.Lines.Material.OrderGroup").
		Where("company_id = ? AND store_id = ? AND scheduled_on = ?", companyID, storeID, date.Format("2006-01-02")).
		Order("created_at ASC").
		Find(&schedules).Error
	return schedules, err
}

// ListByMonth 某门店某月的排程（预算汇总用，不深加载）
func (r *ScheduleRepository) ListByMonth(ctx context.Context, companyID, storeID string, year int, month time.Month) ([]entity.PlanSchedule, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var schedules []entity.PlanSchedule
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where("company_id = ? AND store_id = ? AND scheduled_on >= ? AND scheduled_on < ?",
			companyID, storeID, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("scheduled_on ASC").
		Find(&schedules).Error
	return schedules, err
}

// Update 更新排程（快照、营收、状态都走整行保存）
func (r *ScheduleRepository) Update(ctx context.Context, s *entity.PlanSchedule) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete 删除排程
func (r *ScheduleRepository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Delete(&entity.PlanSchedule{}, "id = ? AND company_id = ?", id, companyID).Error
}
