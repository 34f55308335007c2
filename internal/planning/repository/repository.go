package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 计划仓库集合
type Repositories struct {
	Plan     *PlanRepository
	Schedule *ScheduleRepository
}

// NewRepositories 创建计划仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Plan:     NewPlanRepository(db),
		Schedule: NewScheduleRepository(db),
	}
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
