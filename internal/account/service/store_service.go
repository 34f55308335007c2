package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/chuboware/chubo/internal/account/entity"
	"github.com/chuboware/chubo/internal/account/repository"
	"github.com/google/uuid"
)

// StoreService 门店管理
type StoreService struct {
	repo *repository.StoreRepository
}

func NewStoreService(repo *repository.StoreRepository) *StoreService {
	return &StoreService{repo: repo}
}

type StoreInput struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// Create 创建门店
func (s *StoreService) Create(ctx context.Context, companyID string, input *StoreInput) (*entity.Store, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("门店名称不能为空")
	}

	store := &entity.Store{
		ID:        uuid.New().String()[:32],
		CompanyID: companyID,
		Name:      input.Name,
		Address:   input.Address,
		Status:    "active",
	}
	if err := s.repo.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("创建门店失败: %w", err)
	}
	return store, nil
}

// Get 门店详情
func (s *StoreService) Get(ctx context.Context, companyID, id string) (*entity.Store, error) {
	return s.repo.FindByID(ctx, companyID, id)
}

// List 公司的门店列表
func (s *StoreService) List(ctx context.Context, companyID string) ([]entity.Store, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// Update 更新门店
func (s *StoreService) Update(ctx context.Context, companyID, id string, input *StoreInput) (*entity.Store, error) {
	store, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	store.Name = input.Name
	store.Address = input.Address
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, fmt.Errorf("更新门店失败: %w", err)
	}
	return store, nil
}

// Delete 删除门店
func (s *StoreService) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByID(ctx, companyID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, companyID, id)
}
