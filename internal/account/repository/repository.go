package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 账户仓库集合
type Repositories struct {
	User    *UserRepository
	Store   *StoreRepository
	Company *CompanyRepository
}

// NewRepositories 创建账户仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Store:   NewStoreRepository(db),
		Company: NewCompanyRepository(db),
	}
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
