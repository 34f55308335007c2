package repository

import (
	"context"

	"github.com/chuboware/chubo/internal/account/entity"
	"gorm.io/gorm"
)

type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// Create 创建门店
func (r *StoreRepository) Create(ctx context.Context, s *entity.Store) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindByID 按ID查找门店（公司内）
func (r *StoreRepository) FindByID(ctx context.Context, companyID, id string) (*entity.Store, error) {
	var s entity.Store
	err := r.db.WithContext(ctx).
		First(&s, "id = ? AND company_id = ?", id, companyID).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &s, nil
}

// ListByCompany 公司的门店列表
func (r *StoreRepository) ListByCompany(ctx context.Context, companyID string) ([]entity.Store, error) {
	var stores []entity.Store
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&stores).Error
	return stores, err
}

// Update 更新门店
func (r *StoreRepository) Update(ctx context.Context, s *entity.Store) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete 删除门店
func (r *StoreRepository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Delete(&entity.Store{}, "id = ? AND company_id = ?", id, companyID).Error
}
