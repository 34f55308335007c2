package repository

import (
	"context"

	"github.com/chuboware/chubo/internal/catalog/entity"
	"gorm.io/gorm"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// Create 创建食材
func (r *MaterialRepository) Create(ctx context.Context, m *entity.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// FindByID 按ID查找食材（公司内）
func (r *MaterialRepository) FindByID(ctx context.Context, companyID, id string) (*entity.Material, error) {
	var m entity.Material
	err := r.db.WithContext(ctx).
		Preload("OrderGroup").
		First(&m, "id = ? AND company_id = ?", id, companyID).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &m, nil
}

// ListByCompany 公司的食材列表，display_order 升序
func (r *MaterialRepository) ListByCompany(ctx context.Context, companyID string) ([]entity.Material, error) {
	var materials []entity.Material
	err := r.db.WithContext(ctx).
		Preload("OrderGroup").
		Where("company_id = ?", companyID).
		Order("display_order ASC, name ASC").
		Find(&materials).Error
	return materials, err
}

// Update 更新食材
func (r *MaterialRepository) Update(ctx context.Context, m *entity.Material) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete 删除食材
func (r *MaterialRepository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Delete(&entity.Material{}, "id = ? AND company_id = ?", id, companyID).Error
}

// CountLineRefs 统计引用该食材的配方行数（删除前检查）
func (r *MaterialRepository) CountLineRefs(ctx context.Context, materialID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ProductMaterialLine{}).
		Where("material_id = ?", materialID).
		Count(&count).Error
	return count, err
}

type OrderGroupRepository struct {
	db *gorm.DB
}

func NewOrderGroupRepository(db *gorm.DB) *OrderGroupRepository {
	return &OrderGroupRepository{db: db}
}

// Create 创建订购组
func (r *OrderGroupRepository) Create(ctx context.Context, g *entity.OrderGroup) error {
	return r.db.WithContext(ctx).Create(g).Error
}

// FindByID 按ID查找订购组（公司内）
func (r *OrderGroupRepository) FindByID(ctx context.Context, companyID, id string) (*entity.OrderGroup, error) {
	var g entity.OrderGroup
	err := r.db.WithContext(ctx).
		First(&g, "id = ? AND company_id = ?", id, companyID).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &g, nil
}

// ListByCompany 公司的订购组列表
func (r *OrderGroupRepository) ListByCompany(ctx context.Context, companyID string) ([]entity.OrderGroup, error) {
	var groups []entity.OrderGroup
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("display_order ASC, name ASC").
		Find(&groups).Error
	return groups, err
}

// Update 更新订购组
func (r *OrderGroupRepository) Update(ctx context.Context, g *entity.OrderGroup) error {
	return r.db.WithContext(ctx).Save(g).Error
}

// Delete 删除订购组并解除成员食材的归属
func (r *OrderGroupRepository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.Material{}).
			Where("order_group_id = ? AND company_id = ?", id, companyID).
			Update("order_group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.OrderGroup{}, "id = ? AND company_id = ?", id, companyID).Error
	})
}
