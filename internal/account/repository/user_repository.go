package repository

import (
	"context"

	"github.com/chuboware/chubo/internal/account/entity"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// FindByID 按ID查找用户
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	err := r.db.WithContext(ctx).
		Preload("Company").
		Preload("Store").
		First(&u, "id = ?", id).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

// FindByEmail 按邮箱查找用户（登录用）
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := r.db.WithContext(ctx).
		Preload("Company").
		First(&u, "email = ?", email).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &u, nil
}

// ListByCompany 公司的用户列表
func (r *UserRepository) ListByCompany(ctx context.Context, companyID string) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).
		Preload("Store").
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

// Update 更新用户
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create 创建公司
func (r *CompanyRepository) Create(ctx context.Context, c *entity.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// FindByID 按ID查找公司
func (r *CompanyRepository) FindByID(ctx context.Context, id string) (*entity.Company, error) {
	var c entity.Company
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &c, nil
}

// FindBySubdomain 按子域名查找公司（租户路由）
func (r *CompanyRepository) FindBySubdomain(ctx context.Context, subdomain string) (*entity.Company, error) {
	var c entity.Company
	err := r.db.WithContext(ctx).First(&c, "subdomain = ?", subdomain).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &c, nil
}
