package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/chuboware/chubo/internal/account/entity"
	"github.com/chuboware/chubo/internal/account/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService 用户管理
type UserService struct {
	repo      *repository.UserRepository
	storeRepo *repository.StoreRepository
}

func NewUserService(repo *repository.UserRepository, storeRepo *repository.StoreRepository) *UserService {
	return &UserService{repo: repo, storeRepo: storeRepo}
}

type UserInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
	StoreID  string `json:"store_id"`
	Role     string `json:"role"`
}

func (in *UserInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("用户名不能为空")
	}
	if in.Role != "" && in.Role != entity.RoleAdmin && in.Role != entity.RoleStaff {
		return fmt.Errorf("角色无效: %s", in.Role)
	}
	return nil
}

// Create 创建用户（同公司内）
func (s *UserService) Create(ctx context.Context, companyID string, input *UserInput) (*entity.User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("密码至少8位")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = entity.RoleStaff
	}

	u := &entity.User{
		ID:           uuid.New().String()[:32],
		CompanyID:    companyID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       "active",
	}
	if input.StoreID != "" {
		if _, err := s.storeRepo.FindByID(ctx, companyID, input.StoreID); err != nil {
			return nil, fmt.Errorf("门店不存在: %w", err)
		}
		u.StoreID = &input.StoreID
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return u, nil
}

// List 公司的用户列表
func (s *UserService) List(ctx context.Context, companyID string) ([]entity.User, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// Update 更新用户（密码留空不改）
func (s *UserService) Update(ctx context.Context, companyID, id string, input *UserInput) (*entity.User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.CompanyID != companyID {
		return nil, repository.ErrNotFound
	}

	u.Name = input.Name
	u.Email = input.Email
	if input.Role != "" {
		u.Role = input.Role
	}
	if input.StoreID != "" {
		if _, err := s.storeRepo.FindByID(ctx, companyID, input.StoreID); err != nil {
			return nil, fmt.Errorf("门店不存在: %w", err)
		}
		u.StoreID = &input.StoreID
	} else {
		u.StoreID = nil
	}
	if input.Password != "" {
		if len(input.Password) < 8 {
			return nil, fmt.Errorf("密码至少8位")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("更新用户失败: %w", err)
	}
	return u, nil
}
