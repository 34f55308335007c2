package repository

import (
	"context"

	"github.com/chuboware/chubo/internal/catalog/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) DB() *gorm.DB {
	return r.db
}

// Create 创建商品
func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// FindByID 按ID查找商品（含配方行与食材，聚合前深加载避免N+1）
func (r *ProductRepository) FindByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Material").
		Preload("Lines.Material.OrderGroup").
		First(&p, "id = ? AND company_id = ?", id, companyID).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &p, nil
}

// ListByCompany 公司的商品列表
func (r *ProductRepository) ListByCompany(ctx context.Context, companyID string) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

// Update 更新商品基本信息
func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete 删除商品及配方行
func (r *ProductRepository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.ProductMaterialLine{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Product{}, "id = ? AND company_id = ?", id, companyID).Error
	})
}

// ReplaceLines 原子替换商品的配方行（嵌套表单整组保存）
func (r *ProductRepository) ReplaceLines(ctx context.Context, productID string, lines []entity.ProductMaterialLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.ProductMaterialLine{}, "product_id = ?", productID).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return tx.Create(&lines).Error
	})
}
