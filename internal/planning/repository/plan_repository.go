package repository

import (
	"context"

	"github.com/chuboware/chubo/internal/planning/entity"
	"gorm.io/gorm"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) DB() *gorm.DB {
	return r.db
}

// Create 创建计划
func (r *PlanRepository) Create(ctx context.Context, p *entity.Plan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByID 按ID查找计划，深加载到食材层（聚合一次取齐，避免N+1）
func (r *PlanRepository) FindByID(ctx context.Context, companyID, id string) (*entity.Plan, error) {
	var p entity.Plan
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Product").
		Preload("Lines.Product.Lines").
		Preload("Lines.Product.Lines.Material").
		Preload("Lines.Product.Lines.Material.OrderGroup").
		First(&p, "id = ? AND company_id = ?", id, companyID).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &p, nil
}

// ListByStore 门店的计划列表
func (r *PlanRepository) ListByStore(ctx context.Context, companyID, storeID string) ([]entity.Plan, error) {
	var plans []entity.Plan
	query := r.db.WithContext(ctx).
		Where("company_id = ?", companyID)
	if storeID != "" {
		query = query.Where("store_id = ?", storeID)
	}
	err := query.Order("created_at DESC").Find(&plans).Error
	return plans, err
}

// Update 更新计划
func (r *PlanRepository) Update(ctx context.Context, p *entity.Plan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete 删除计划及商品行
func (r *PlanRepository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.PlanProductLine{}, "plan_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Plan{}, "id = ? AND company_id = ?", id, companyID).Error
	})
}

// ReplaceLines 原子替换计划的商品行
func (r *PlanRepository) ReplaceLines(ctx context.Context, planID string, lines []entity.PlanProductLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.PlanProductLine{}, "plan_id = ?", planID).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}

// CountByName 同名计划数（复制时生成不冲突的名字用）
func (r *PlanRepository) CountByName(ctx context.Context, companyID, name string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Plan{}).
		Where("company_id = ? AND name = ?", companyID, name).
		Count(&count).Error
	return count, err
}
