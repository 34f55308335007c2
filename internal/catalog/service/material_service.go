package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chuboware/chubo/internal/catalog/entity"
	"github.com/chuboware/chubo/internal/catalog/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const materialCacheTTL = 5 * time.Minute

// MaterialService 食材服务
type MaterialService struct {
	repo      *repository.MaterialRepository
	groupRepo *repository.OrderGroupRepository
	rdb       *redis.Client
}

func NewMaterialService(repo *repository.MaterialRepository, groupRepo *repository.OrderGroupRepository, rdb *redis.Client) *MaterialService {
	return &MaterialService{repo: repo, groupRepo: groupRepo, rdb: rdb}
}

// MaterialInput 食材表单
type MaterialInput struct {
	Name               string   `json:"name" binding:"required"`
	MeasurementMode    string   `json:"measurement_mode"`
	DefaultUnitWeight  float64  `json:"default_unit_weight"`
	OrderUnitWeight    *float64 `json:"order_unit_weight"`
	PiecesPerOrderUnit *int     `json:"pieces_per_order_unit"`
	OrderUnitName      string   `json:"order_unit_name"`
	OrderGroupID       *string  `json:"order_group_id"`
	DisplayOrder       *int     `json:"display_order"`
	Notes              string   `json:"notes"`
}

func (in *MaterialInput) validate() error {
	switch in.MeasurementMode {
	case "", entity.MeasurementWeight, entity.MeasurementCount:
	default:
		return fmt.Errorf("invalid measurement mode: %s", in.MeasurementMode)
	}
	if in.OrderUnitWeight != nil && *in.OrderUnitWeight <= 0 {
		return fmt.Errorf("order unit weight must be positive")
	}
	if in.PiecesPerOrderUnit != nil && *in.PiecesPerOrderUnit <= 0 {
		return fmt.Errorf("pieces per order unit must be positive")
	}
	return nil
}

// Create 创建食材
func (s *MaterialService) Create(ctx context.Context, companyID string, input *MaterialInput, createdBy string) (*entity.Material, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	// 订购组必须属于同一公司
	if input.OrderGroupID != nil {
		if _, err := s.groupRepo.FindByID(ctx, companyID, *input.OrderGroupID); err != nil {
			return nil, fmt.Errorf("order group not found: %w", err)
		}
	}

	m := &entity.Material{
		ID:                 uuid.New().String()[:32],
		CompanyID:          companyID,
		Name:               input.Name,
		MeasurementMode:    input.MeasurementMode,
		DefaultUnitWeight:  input.DefaultUnitWeight,
		OrderUnitWeight:    input.OrderUnitWeight,
		PiecesPerOrderUnit: input.PiecesPerOrderUnit,
		OrderUnitName:      input.OrderUnitName,
		OrderGroupID:       input.OrderGroupID,
		DisplayOrder:       entity.DefaultDisplayOrder,
		Notes:              input.Notes,
		CreatedBy:          createdBy,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}
	if m.MeasurementMode == "" {
		m.MeasurementMode = entity.MeasurementWeight
	}
	if input.DisplayOrder != nil {
		m.DisplayOrder = *input.DisplayOrder
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create material: %w", err)
	}
	s.clearCache(ctx, companyID)
	return m, nil
}

// Get 获取食材
func (s *MaterialService) Get(ctx context.Context, companyID, id string) (*entity.Material, error) {
	return s.repo.FindByID(ctx, companyID, id)
}

// List 公司的食材列表（redis 缓存，写操作时失效）
func (s *MaterialService) List(ctx context.Context, companyID string) ([]entity.Material, error) {
	cacheKey := "materials:list:" + companyID

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var materials []entity.Material
			if json.Unmarshal([]byte(cached), &materials) == nil {
				return materials, nil
			}
		}
	}

	materials, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(materials); err == nil {
			s.rdb.Set(ctx, cacheKey, data, materialCacheTTL)
		}
	}
	return materials, nil
}

// Update 全量替换食材（PUT 语义，未提交的字段恢复默认值）。
// 配方行里的 unit_weight 快照不受影响
func (s *MaterialService) Update(ctx context.Context, companyID, id string, input *MaterialInput) (*entity.Material, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	m, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if input.OrderGroupID != nil {
		if _, err := s.groupRepo.FindByID(ctx, companyID, *input.OrderGroupID); err != nil {
			return nil, fmt.Errorf("order group not found: %w", err)
		}
	}

	m.Name = input.Name
	m.MeasurementMode = input.MeasurementMode
	if m.MeasurementMode == "" {
		m.MeasurementMode = entity.MeasurementWeight
	}
	m.DefaultUnitWeight = input.DefaultUnitWeight
	m.OrderUnitWeight = input.OrderUnitWeight
	m.PiecesPerOrderUnit = input.PiecesPerOrderUnit
	m.OrderUnitName = input.OrderUnitName
	m.OrderGroupID = input.OrderGroupID
	m.DisplayOrder = entity.DefaultDisplayOrder
	if input.DisplayOrder != nil {
		m.DisplayOrder = *input.DisplayOrder
	}
	m.Notes = input.Notes
	m.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update material: %w", err)
	}
	s.clearCache(ctx, companyID)
	return m, nil
}

// Delete 删除食材。被配方引用时拒绝
func (s *MaterialService) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByID(ctx, companyID, id); err != nil {
		return err
	}

	refs, err := s.repo.CountLineRefs(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("material is referenced by %d product lines", refs)
	}

	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	s.clearCache(ctx, companyID)
	return nil
}

// clearCache 清除食材缓存
func (s *MaterialService) clearCache(ctx context.Context, companyID string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, "materials:list:"+companyID)
	}
}

// OrderGroupService 订购组服务
type OrderGroupService struct {
	repo *repository.OrderGroupRepository
}

func NewOrderGroupService(repo *repository.OrderGroupRepository) *OrderGroupService {
	return &OrderGroupService{repo: repo}
}

// OrderGroupInput 订购组表单
type OrderGroupInput struct {
	Name         string `json:"name" binding:"required"`
	DisplayOrder *int   `json:"display_order"`
}

// Create 创建订购组
func (s *OrderGroupService) Create(ctx context.Context, companyID string, input *OrderGroupInput) (*entity.OrderGroup, error) {
	g := &entity.OrderGroup{
		ID:           uuid.New().String()[:32],
		CompanyID:    companyID,
		Name:         input.Name,
		DisplayOrder: entity.DefaultDisplayOrder,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if input.DisplayOrder != nil {
		g.DisplayOrder = *input.DisplayOrder
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create order group: %w", err)
	}
	return g, nil
}

// List 公司的订购组列表
func (s *OrderGroupService) List(ctx context.Context, companyID string) ([]entity.OrderGroup, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// Update 更新订购组
func (s *OrderGroupService) Update(ctx context.Context, companyID, id string, input *OrderGroupInput) (*entity.OrderGroup, error) {
	g, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		g.Name = input.Name
	}
	if input.DisplayOrder != nil {
		g.DisplayOrder = *input.DisplayOrder
	}
	g.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update order group: %w", err)
	}
	return g, nil
}

// Delete 删除订购组（成员食材自动解除归属）
func (s *OrderGroupService) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByID(ctx, companyID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, companyID, id)
}
