package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/chuboware/chubo/internal/catalog/entity"
	"github.com/chuboware/chubo/internal/catalog/repository"
	"github.com/chuboware/chubo/internal/planning/requirements"
	"github.com/google/uuid"
)

type ProductService struct {
	repo         *repository.ProductRepository
	materialRepo *repository.MaterialRepository
}

func NewProductService(repo *repository.ProductRepository, materialRepo *repository.MaterialRepository) *ProductService {
	return &ProductService{repo: repo, materialRepo: materialRepo}
}

// ProductLineInput 配方行输入。UnitWeight 为0时从食材主数据补快照
type ProductLineInput struct {
	MaterialID string  `json:"material_id" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"required"`
	UnitWeight float64 `json:"unit_weight"`
}

type ProductInput struct {
	Name        string             `json:"name" binding:"required"`
	Price       float64            `json:"price"`
	ImageKey    string             `json:"image_key"`
	Description string             `json:"description"`
	Lines       []ProductLineInput `json:"lines"`
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("商品名称不能为空")
	}
	if in.Price < 0 {
		return fmt.Errorf("販売単価不能为负")
	}
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("配方行用量必须大于0")
		}
		if l.UnitWeight < 0 {
			return fmt.Errorf("配方行単位重量不能为负")
		}
	}
	return nil
}

// normalizeLines 校验并落实配方行：同一食材重复时保留最后一行，
// 単位重量缺省时拷贝食材主数据的默认值作快照
func (s *ProductService) normalizeLines(ctx context.Context, companyID, productID string, inputs []ProductLineInput) ([]entity.ProductMaterialLine, error) {
	byMaterial := make(map[string]ProductLineInput, len(inputs))
	order := make([]string, 0, len(inputs))
	for _, in := range inputs {
		if _, seen := byMaterial[in.MaterialID]; !seen {
			order = append(order, in.MaterialID)
		}
		byMaterial[in.MaterialID] = in
	}

	lines := make([]entity.ProductMaterialLine, 0, len(order))
	for _, materialID := range order {
		in := byMaterial[materialID]
		m, err := s.materialRepo.FindByID(ctx, companyID, materialID)
		if err != nil {
			return nil, fmt.Errorf("食材不存在: %w", err)
		}
		unitWeight := in.UnitWeight
		if unitWeight == 0 {
			unitWeight = m.DefaultUnitWeight
		}
		lines = append(lines, entity.ProductMaterialLine{
			ID:         uuid.New().String()[:32],
			ProductID:  productID,
			MaterialID: m.ID,
			Quantity:   in.Quantity,
			UnitWeight: unitWeight,
		})
	}
	return lines, nil
}

// Create 创建商品及配方
func (s *ProductService) Create(ctx context.Context, companyID, userID string, input *ProductInput) (*entity.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	p := &entity.Product{
		ID:          uuid.New().String()[:32],
		CompanyID:   companyID,
		Name:        input.Name,
		Price:       input.Price,
		ImageKey:    input.ImageKey,
		Description: input.Description,
		CreatedBy:   userID,
	}
	lines, err := s.normalizeLines(ctx, companyID, p.ID, input.Lines)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("创建商品失败: %w", err)
	}
	if err := s.repo.ReplaceLines(ctx, p.ID, lines); err != nil {
		return nil, fmt.Errorf("保存配方失败: %w", err)
	}
	return s.repo.FindByID(ctx, companyID, p.ID)
}

// Get 商品详情（含配方）
func (s *ProductService) Get(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return s.repo.FindByID(ctx, companyID, id)
}

// List 商品列表
func (s *ProductService) List(ctx context.Context, companyID string) ([]entity.Product, error) {
	return s.repo.ListByCompany(ctx, companyID)
}

// Update 更新商品与配方（配方整组原子替换）
func (s *ProductService) Update(ctx context.Context, companyID, id string, input *ProductInput) (*entity.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	p.Name = input.Name
	p.Price = input.Price
	p.ImageKey = input.ImageKey
	p.Description = input.Description
	p.Lines = nil

	lines, err := s.normalizeLines(ctx, companyID, p.ID, input.Lines)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("更新商品失败: %w", err)
	}
	if err := s.repo.ReplaceLines(ctx, p.ID, lines); err != nil {
		return nil, fmt.Errorf("保存配方失败: %w", err)
	}
	return s.repo.FindByID(ctx, companyID, id)
}

// Delete 删除商品及配方
func (s *ProductService) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByID(ctx, companyID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, companyID, id)
}

// MaterialPreview 单品备料预览：按生产份数展开配方并换算订购数。
// 预览用两位小数舍入，不进整（下单聚合才进整）
func (s *ProductService) MaterialPreview(ctx context.Context, companyID, id string, productionCount int) ([]requirements.Requirement, error) {
	p, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	contribs, err := requirements.ExpandProduct(p.RequirementLines(), productionCount, p.Name)
	if err != nil {
		return nil, err
	}
	return requirements.Aggregate(contribs, requirements.Options{
		MergeKey: requirements.MergeByID,
		Rounding: requirements.RoundTwoDecimal,
	}), nil
}
