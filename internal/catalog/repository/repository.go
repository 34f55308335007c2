package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 目录仓库集合
type Repositories struct {
	Material   *MaterialRepository
	OrderGroup *OrderGroupRepository
	Product    *ProductRepository
}

// NewRepositories 创建目录仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Material:   NewMaterialRepository(db),
		OrderGroup: NewOrderGroupRepository(db),
		Product:    NewProductRepository(db),
	}
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
