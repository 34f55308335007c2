package handler

import (
	"errors"

	"github.com/chuboware/chubo/internal/planning/repository"
	"github.com/chuboware/chubo/internal/planning/service"
	"github.com/gin-gonic/gin"
)

// ScheduleHandler 排程处理器
type ScheduleHandler struct {
	svc    *service.ScheduleService
	export *service.ExportService
}

// NewScheduleHandler 创建排程处理器
func NewScheduleHandler(svc *service.ScheduleService, export *service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, export: export}
}

// List 某天的排程列表
func (h *ScheduleHandler) List(c *gin.Context) {
	date, ok := GetQueryDate(c, "date")
	if !ok {
		BadRequest(c, "date is required (YYYY-MM-DD)")
		return
	}

	schedules, err := h.svc.ListByDate(c.Request.Context(), GetCompanyID(c), GetStoreID(c), date)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": schedules})
}

// Create 创建排程（立即拍快照）
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.ScheduleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	schedule, err := h.svc.Create(c.Request.Context(), GetCompanyID(c), GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Plan not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Created(c, schedule)
}

// Get 排程详情（含快照）
func (h *ScheduleHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Schedule ID is required")
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), GetCompanyID(c), id)
	if err != nil {
		NotFound(c, "Schedule not found")
		return
	}
	Success(c, detail)
}

// RefreshSnapshot 重拍快照
func (h *ScheduleHandler) RefreshSnapshot(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Schedule ID is required")
		return
	}

	detail, err := h.svc.RefreshSnapshot(c.Request.Context(), GetCompanyID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Schedule not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, detail)
}

// recordRevenueRequest 实际营收录入
type recordRevenueRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

// RecordActualRevenue 录入实际营收
func (h *ScheduleHandler) RecordActualRevenue(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Schedule ID is required")
		return
	}

	var req recordRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	schedule, err := h.svc.RecordActualRevenue(c.Request.Context(), GetCompanyID(c), id, req.Amount)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Schedule not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, schedule)
}

// Cancel 取消排程
func (h *ScheduleHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Schedule ID is required")
		return
	}

	schedule, err := h.svc.Cancel(c.Request.Context(), GetCompanyID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Schedule not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, schedule)
}

// DailyRequirements 按天跨计划备料汇总
func (h *ScheduleHandler) DailyRequirements(c *gin.Context) {
	date, ok := GetQueryDate(c, "date")
	if !ok {
		BadRequest(c, "date is required (YYYY-MM-DD)")
		return
	}

	reqs, err := h.svc.DailyRequirements(c.Request.Context(), GetCompanyID(c), GetStoreID(c), date)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"date": date.Format("2006-01-02"), "materials": reqs})
}

// ExportDailyRequirements 按天备料清单导出Excel
func (h *ScheduleHandler) ExportDailyRequirements(c *gin.Context) {
	date, ok := GetQueryDate(c, "date")
	if !ok {
		BadRequest(c, "date is required (YYYY-MM-DD)")
		return
	}

	f, filename, err := h.export.DailyRequirements(c.Request.Context(), GetCompanyID(c), GetStoreID(c), date)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
