package service

import (
	"context"
	"time"

	"github.com/chuboware/chubo/internal/planning/entity"
	"github.com/chuboware/chubo/internal/planning/repository"
)

// BudgetService 月度目标与实绩汇总
type BudgetService struct {
	repo *repository.ScheduleRepository
}

func NewBudgetService(repo *repository.ScheduleRepository) *BudgetService {
	return &BudgetService{repo: repo}
}

// DayRevenue 单日营收汇总
type DayRevenue struct {
	Date    string  `json:"date"`
	Planned float64 `json:"planned"`
	Actual  float64 `json:"actual"`
}

// MonthlySummary 月度目标实绩对比
type MonthlySummary struct {
	Year            int          `json:"year"`
	Month           int          `json:"month"`
	Days            []DayRevenue `json:"days"`
	TotalPlanned    float64      `json:"total_planned"`
	TotalActual     float64      `json:"total_actual"`
	AchievementRate float64      `json:"achievement_rate"` // actual/planned，planned为0时为0
}

// Monthly 某门店某月的目标实绩汇总。
// 目标口径：冻结的 PlannedRevenue 优先，未冻结时用快照的商品金额；
// 已取消的排程不参与
func (s *BudgetService) Monthly(ctx context.Context, companyID, storeID string, year int, month time.Month) (*MonthlySummary, error) {
	schedules, err := s.repo.ListByMonth(ctx, companyID, storeID, year, month)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*DayRevenue)
	order := make([]string, 0)
	summary := &MonthlySummary{Year: year, Month: int(month)}

	for _, schedule := range schedules {
		if schedule.Status == entity.ScheduleStatusCancelled {
			continue
		}

		planned := plannedRevenueOf(&schedule)
		var actual float64
		if schedule.ActualRevenue != nil {
			actual = *schedule.ActualRevenue
		}

		key := schedule.ScheduledOn.Format("2006-01-02")
		day, ok := byDate[key]
		if !ok {
			day = &DayRevenue{Date: key}
			byDate[key] = day
			order = append(order, key)
		}
		day.Planned += planned
		day.Actual += actual
		summary.TotalPlanned += planned
		summary.TotalActual += actual
	}

	summary.Days = make([]DayRevenue, 0, len(order))
	for _, key := range order {
		summary.Days = append(summary.Days, *byDate[key])
	}
	if summary.TotalPlanned > 0 {
		summary.AchievementRate = summary.TotalActual / summary.TotalPlanned
	}
	return summary, nil
}

// plannedRevenueOf 排程的目标营收：冻结值优先，其次快照金额
func plannedRevenueOf(schedule *entity.PlanSchedule) float64 {
	if schedule.PlannedRevenue != nil {
		return *schedule.PlannedRevenue
	}
	snap, err := unmarshalSnapshot(schedule.SnapshotJSON)
	if err != nil || snap == nil {
		return 0
	}
	return snap.TotalCost
}
