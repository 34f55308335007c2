package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	catalogrepo "github.com/chuboware/chubo/internal/catalog/repository"
	"github.com/chuboware/chubo/internal/planning/entity"
	"github.com/chuboware/chubo/internal/planning/repository"
	"github.com/chuboware/chubo/internal/planning/requirements"
	"github.com/google/uuid"
)

type ScheduleService struct {
	repo        *repository.ScheduleRepository
	planRepo    *repository.PlanRepository
	productRepo *catalogrepo.ProductRepository
}

func NewScheduleService(repo *repository.ScheduleRepository, planRepo *repository.PlanRepository, productRepo *catalogrepo.ProductRepository) *ScheduleService {
	return &ScheduleService{repo: repo, planRepo: planRepo, productRepo: productRepo}
}

type ScheduleInput struct {
	PlanID      string `json:"plan_id" binding:"required"`
	StoreID     string `json:"store_id"`
	ScheduledOn string `json:"scheduled_on" binding:"required"` // YYYY-MM-DD
}

// ScheduleDetail 排程详情：有快照用快照数字，没有算即时值
type ScheduleDetail struct {
	Schedule *entity.PlanSchedule     `json:"schedule"`
	Snapshot *entity.ScheduleSnapshot `json:"snapshot,omitempty"`
}

// buildSnapshot 从计划的当前构成生成快照：
// 商品构成、预期营收、时点食材汇总（按ID合并、进整）
func buildSnapshot(p *entity.Plan) (*entity.ScheduleSnapshot, error) {
	snap := &entity.ScheduleSnapshot{
		Products: make([]entity.SnapshotProduct, 0, len(p.Lines)),
		TakenAt:  time.Now(),
	}
	for _, l := range p.Lines {
		if l.Product == nil {
			continue
		}
		snap.Products = append(snap.Products, entity.SnapshotProduct{
			ProductID:       l.ProductID,
			Name:            l.Product.Name,
			Price:           l.Product.Price,
			ProductionCount: l.ProductionCount,
		})
		snap.TotalCost += l.Product.Price * float64(l.ProductionCount)
	}

	contribs, err := expandPlan(p)
	if err != nil {
		return nil, err
	}
	snap.Materials = requirements.Aggregate(contribs, requirements.Options{
		MergeKey: requirements.MergeByID,
		Rounding: requirements.RoundCeil,
	})
	return snap, nil
}

func marshalSnapshot(snap *entity.ScheduleSnapshot) (*string, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	s := string(raw)
	return &s, nil
}

func unmarshalSnapshot(raw *string) (*entity.ScheduleSnapshot, error) {
	if raw == nil {
		return nil, nil
	}
	var snap entity.ScheduleSnapshot
	if err := json.Unmarshal([]byte(*raw), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Create 创建排程并立即拍快照：排到日历的一刻数字就冻结
func (s *ScheduleService) Create(ctx context.Context, companyID, userID string, input *ScheduleInput) (*entity.PlanSchedule, error) {
	date, err := time.Parse("2006-01-02", input.ScheduledOn)
	if err != nil {
		return nil, fmt.Errorf("日期格式错误: %w", err)
	}

	plan, err := s.planRepo.FindByID(ctx, companyID, input.PlanID)
	if err != nil {
		return nil, fmt.Errorf("计划不存在: %w", err)
	}

	storeID := input.StoreID
	if storeID == "" {
		storeID = plan.StoreID
	}

	snap, err := buildSnapshot(plan)
	if err != nil {
		return nil, err
	}
	raw, err := marshalSnapshot(snap)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	schedule := &entity.PlanSchedule{
		ID:           uuid.New().String()[:32],
		CompanyID:    companyID,
		StoreID:      storeID,
		PlanID:       plan.ID,
		ScheduledOn:  date,
		Status:       entity.ScheduleStatusScheduled,
		SnapshotJSON: raw,
		SnapshotAt:   &now,
		CreatedBy:    userID,
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("创建排程失败: %w", err)
	}
	return s.repo.FindByID(ctx, companyID, schedule.ID)
}

// Get 排程详情（含解出的快照）
func (s *ScheduleService) Get(ctx context.Context, companyID, id string) (*ScheduleDetail, error) {
	schedule, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	snap, err := unmarshalSnapshot(schedule.SnapshotJSON)
	if err != nil {
		return nil, err
	}
	return &ScheduleDetail{Schedule: schedule, Snapshot: snap}, nil
}

// ListByDate 某门店某天的排程
func (s *ScheduleService) ListByDate(ctx context.Context, companyID, storeID string, date time.Time) ([]entity.PlanSchedule, error) {
	return s.repo.ListByDate(ctx, companyID, storeID, date)
}

// RefreshSnapshot 显式重拍快照：计划改了之后用户确认把新构成带进该排程。
// 已取消的排程不能重拍
func (s *ScheduleService) RefreshSnapshot(ctx context.Context, companyID, id string) (*ScheduleDetail, error) {
	schedule, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status == entity.ScheduleStatusCancelled {
		return nil, fmt.Errorf("已取消的排程不能更新快照")
	}

	plan, err := s.planRepo.FindByID(ctx, companyID, schedule.PlanID)
	if err != nil {
		return nil, fmt.Errorf("计划不存在: %w", err)
	}

	snap, err := buildSnapshot(plan)
	if err != nil {
		return nil, err
	}
	raw, err := marshalSnapshot(snap)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	schedule.SnapshotJSON = raw
	schedule.SnapshotAt = &now
	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("更新快照失败: %w", err)
	}
	return &ScheduleDetail{Schedule: schedule, Snapshot: snap}, nil
}

// RecordActualRevenue 录入实际营收。
// 首次录入时把计划的即时预期营收拷进 PlannedRevenue 冻结，
// 之后编辑计划不再影响该排程的达成率口径
func (s *ScheduleService) RecordActualRevenue(ctx context.Context, companyID, id string, amount float64) (*entity.PlanSchedule, error) {
	if amount < 0 {
		return nil, fmt.Errorf("实际营收不能为负")
	}

	schedule, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status == entity.ScheduleStatusCancelled {
		return nil, fmt.Errorf("已取消的排程不能录入营收")
	}

	if schedule.PlannedRevenue == nil {
		plan, err := s.planRepo.FindByID(ctx, companyID, schedule.PlanID)
		if err != nil {
			return nil, fmt.Errorf("计划不存在: %w", err)
		}
		planned := ExpectedRevenue(plan)
		schedule.PlannedRevenue = &planned
	}

	now := time.Now()
	schedule.ActualRevenue = &amount
	schedule.RevenueRecorded = &now
	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("录入营收失败: %w", err)
	}
	return schedule, nil
}

// Cancel 取消排程（终态）。记录保留，但不再参与按天汇总与预算
func (s *ScheduleService) Cancel(ctx context.Context, companyID, id string) (*entity.PlanSchedule, error) {
	schedule, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if schedule.Status == entity.ScheduleStatusCancelled {
		return schedule, nil
	}

	now := time.Now()
	schedule.Status = entity.ScheduleStatusCancelled
	schedule.CancelledAt = &now
	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("取消排程失败: %w", err)
	}
	return schedule, nil
}

// DailyRequirements 按天跨计划的备料汇总（采购视角）。
// 有快照的排程用快照冻结的商品构成，没有的用计划即时构成；
// 已取消的排程不参与。按食材ID合并，来源计划名随行列出
func (s *ScheduleService) DailyRequirements(ctx context.Context, companyID, storeID string, date time.Time) ([]requirements.Requirement, error) {
	schedules, err := s.repo.ListByDate(ctx, companyID, storeID, date)
	if err != nil {
		return nil, err
	}

	var contribs []requirements.Contribution
	for _, schedule := range schedules {
		if schedule.Status == entity.ScheduleStatusCancelled {
			continue
		}
		cs, err := s.scheduleContributions(ctx, companyID, &schedule)
		if err != nil {
			return nil, err
		}
		contribs = append(contribs, cs...)
	}

	return requirements.Aggregate(contribs, requirements.Options{
		MergeKey: requirements.MergeByID,
		Rounding: requirements.RoundCeil,
	}), nil
}

// scheduleContributions 单个排程的食材贡献。
// 快照只冻结商品构成与份数，配方按当前主数据展开（采购要反映最新配方）
func (s *ScheduleService) scheduleContributions(ctx context.Context, companyID string, schedule *entity.PlanSchedule) ([]requirements.Contribution, error) {
	snap, err := unmarshalSnapshot(schedule.SnapshotJSON)
	if err != nil {
		return nil, err
	}

	if snap == nil {
		if schedule.Plan == nil {
			return nil, nil
		}
		return expandPlan(schedule.Plan)
	}

	planName := ""
	if schedule.Plan != nil {
		planName = schedule.Plan.Name
	}

	var contribs []requirements.Contribution
	for _, sp := range snap.Products {
		product, err := s.productRepo.FindByID(ctx, companyID, sp.ProductID)
		if errors.Is(err, catalogrepo.ErrNotFound) {
			// 商品已被删时跳过该行
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("查询商品 %s: %w", sp.ProductID, err)
		}
		cs, err := requirements.ExpandProduct(product.RequirementLines(), sp.ProductionCount, planName)
		if err != nil {
			return nil, fmt.Errorf("展开商品 %s: %w", product.Name, err)
		}
		contribs = append(contribs, cs...)
	}
	return contribs, nil
}
