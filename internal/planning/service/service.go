package service

import (
	catalogrepo "github.com/chuboware/chubo/internal/catalog/repository"
	"github.com/chuboware/chubo/internal/planning/repository"
)

// Services 计划服务集合
type Services struct {
	Plan     *PlanService
	Schedule *ScheduleService
	Budget   *BudgetService
	Export   *ExportService
}

// NewServices 创建计划服务集合
func NewServices(repos *repository.Repositories, catalogRepos *catalogrepo.Repositories) *Services {
	scheduleSvc := NewScheduleService(repos.Schedule, repos.Plan, catalogRepos.Product)
	return &Services{
		Plan:     NewPlanService(repos.Plan, catalogRepos.Product),
		Schedule: scheduleSvc,
		Budget:   NewBudgetService(repos.Schedule),
		Export:   NewExportService(scheduleSvc),
	}
}
