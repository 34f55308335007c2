package service

import (
	"context"
	"fmt"
	"strings"

	catalogrepo "github.com/chuboware/chubo/internal/catalog/repository"
	"github.com/chuboware/chubo/internal/planning/entity"
	"github.com/chuboware/chubo/internal/planning/repository"
	"github.com/chuboware/chubo/internal/planning/requirements"
	"github.com/google/uuid"
)

type PlanService struct {
	repo        *repository.PlanRepository
	productRepo *catalogrepo.ProductRepository
}

func NewPlanService(repo *repository.PlanRepository, productRepo *catalogrepo.ProductRepository) *PlanService {
	return &PlanService{repo: repo, productRepo: productRepo}
}

// PlanLineInput 计划商品行输入
type PlanLineInput struct {
	ProductID       string `json:"product_id" binding:"required"`
	ProductionCount int    `json:"production_count" binding:"required"`
}

type PlanInput struct {
	StoreID     string          `json:"store_id" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Lines       []PlanLineInput `json:"lines"`
}

func (in *PlanInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("计划名称不能为空")
	}
	for _, l := range in.Lines {
		if l.ProductionCount <= 0 {
			return fmt.Errorf("生产份数必须大于0")
		}
	}
	return nil
}

// normalizeLines 落实商品行：同一商品重复时保留最后一行，并校验商品属于本公司
func (s *PlanService) normalizeLines(ctx context.Context, companyID, planID string, inputs []PlanLineInput) ([]entity.PlanProductLine, error) {
	byProduct := make(map[string]PlanLineInput, len(inputs))
	order := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if _, seen := byProduct[in.ProductID]; !seen {
			order = append(order, in.ProductID)
		}
		byProduct[in.ProductID] = in
	}

	lines := make([]entity.PlanProductLine, 0, len(order))
	for _, productID := range order {
		in := byProduct[productID]
		if _, err := s.productRepo.FindByID(ctx, companyID, productID); err != nil {
			return nil, fmt.Errorf("商品不存在: %w", err)
		}
		lines = append(lines, entity.PlanProductLine{
			ID:              uuid.New().String()[:32],
			PlanID:          planID,
			ProductID:       productID,
			ProductionCount: in.ProductionCount,
		})
	}
	return lines, nil
}

// Create 创建计划及商品行
func (s *PlanService) Create(ctx context.Context, companyID, userID string, input *PlanInput) (*entity.Plan, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	p := &entity.Plan{
		ID:          uuid.New().String()[:32],
		CompanyID:   companyID,
		StoreID:     input.StoreID,
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   userID,
	}
	lines, err := s.normalizeLines(ctx, companyID, p.ID, input.Lines)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("创建计划失败: %w", err)
	}
	if err := s.repo.ReplaceLines(ctx, p.ID, lines); err != nil {
		return nil, fmt.Errorf("保存商品行失败: %w", err)
	}
	return s.repo.FindByID(ctx, companyID, p.ID)
}

// Get 计划详情（深加载到食材层）
func (s *PlanService) Get(ctx context.Context, companyID, id string) (*entity.Plan, error) {
	return s.repo.FindByID(ctx, companyID, id)
}

// List 门店的计划列表
func (s *PlanService) List(ctx context.Context, companyID, storeID string) ([]entity.Plan, error) {
	return s.repo.ListByStore(ctx, companyID, storeID)
}

// Update 更新计划与商品行（整组原子替换）
func (s *PlanService) Update(ctx context.Context, companyID, id string, input *PlanInput) (*entity.Plan, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	p.StoreID = input.StoreID
	p.Name = input.Name
	p.Description = input.Description
	p.Lines = nil

	lines, err := s.normalizeLines(ctx, companyID, p.ID, input.Lines)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("更新计划失败: %w", err)
	}
	if err := s.repo.ReplaceLines(ctx, p.ID, lines); err != nil {
		return nil, fmt.Errorf("保存商品行失败: %w", err)
	}
	return s.repo.FindByID(ctx, companyID, id)
}

// Delete 删除计划及商品行
func (s *PlanService) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByID(ctx, companyID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, companyID, id)
}

// Requirements 单计划备料汇总。
// 老的下单口径：按食材名合并、订购数进整
func (s *PlanService) Requirements(ctx context.Context, companyID, id string) ([]requirements.Requirement, error) {
	p, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	contribs, err := expandPlan(p)
	if err != nil {
		return nil, err
	}
	return requirements.Aggregate(contribs, requirements.Options{
		MergeKey: requirements.MergeByName,
		Rounding: requirements.RoundCeil,
	}), nil
}

// ExpectedRevenue 计划的即时预期营收：Σ 販売単価 × 生产份数
func ExpectedRevenue(p *entity.Plan) float64 {
	var total float64
	for _, l := range p.Lines {
		if l.Product == nil {
			continue
		}
		total += l.Product.Price * float64(l.ProductionCount)
	}
	return total
}

// expandPlan 计划的全部商品行展开为食材贡献
func expandPlan(p *entity.Plan) ([]requirements.Contribution, error) {
	var contribs []requirements.Contribution
	for _, line := range p.Lines {
		if line.Product == nil {
			continue
		}
		cs, err := requirements.ExpandProduct(line.Product.RequirementLines(), line.ProductionCount, p.Name)
		if err != nil {
			return nil, fmt.Errorf("展开商品 %s: %w", line.Product.Name, err)
		}
		contribs = append(contribs, cs...)
	}
	return contribs, nil
}

// CopyConfig 复制计划的配置。
// Name 为空时沿用「原名のコピー」，同名已存在则追加序号
type CopyConfig struct {
	Name      string `json:"name"`
	StoreID   string `json:"store_id"`
	WithLines bool   `json:"with_lines"`
}

// Duplicate 复制计划。复制体是独立实体，之后两边互不影响
func (s *PlanService) Duplicate(ctx context.Context, companyID, userID, id string, cfg CopyConfig) (*entity.Plan, error) {
	src, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = src.Name + "のコピー"
	}
	if count, err := s.repo.CountByName(ctx, companyID, name); err == nil && count > 0 {
		name = fmt.Sprintf("%s (%d)", name, count+1)
	}

	storeID := cfg.StoreID
	if storeID == "" {
		storeID = src.StoreID
	}

	dup := &entity.Plan{
		ID:          uuid.New().String()[:32],
		CompanyID:   companyID,
		StoreID:     storeID,
		Name:        name,
		Description: src.Description,
		CreatedBy:   userID,
	}
	if err := s.repo.Create(ctx, dup); err != nil {
		return nil, fmt.Errorf("复制计划失败: %w", err)
	}

	if cfg.WithLines {
		lines := make([]entity.PlanProductLine, 0, len(src.Lines))
		for _, l := range src.Lines {
			lines = append(lines, entity.PlanProductLine{
				ID:              uuid.New().String()[:32],
				PlanID:          dup.ID,
				ProductID:       l.ProductID,
				ProductionCount: l.ProductionCount,
			})
		}
		if err := s.repo.ReplaceLines(ctx, dup.ID, lines); err != nil {
			return nil, fmt.Errorf("复制商品行失败: %w", err)
		}
	}

	return s.repo.FindByID(ctx, companyID, dup.ID)
}
