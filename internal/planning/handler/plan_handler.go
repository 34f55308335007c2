package handler

import (
	"errors"

	"github.com/chuboware/chubo/internal/planning/repository"
	"github.com/chuboware/chubo/internal/planning/service"
	"github.com/gin-gonic/gin"
)

// PlanHandler 生产计划处理器
type PlanHandler struct {
	svc *service.PlanService
}

// NewPlanHandler 创建计划处理器
func NewPlanHandler(svc *service.PlanService) *PlanHandler {
	return &PlanHandler{svc: svc}
}

// List 计划列表
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.svc.List(c.Request.Context(), GetCompanyID(c), c.Query("store_id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": plans})
}

// Create 创建计划（含嵌套商品行）
func (h *PlanHandler) Create(c *gin.Context) {
	var req service.PlanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Create(c.Request.Context(), GetCompanyID(c), GetUserID(c), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, p)
}

// Get 计划详情
func (h *PlanHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Plan ID is required")
		return
	}

	p, err := h.svc.Get(c.Request.Context(), GetCompanyID(c), id)
	if err != nil {
		NotFound(c, "Plan not found")
		return
	}
	Success(c, gin.H{"plan": p, "expected_revenue": service.ExpectedRevenue(p)})
}

// Update 更新计划与商品行
func (h *PlanHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Plan ID is required")
		return
	}

	var req service.PlanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Update(c.Request.Context(), GetCompanyID(c), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Plan not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, p)
}

// Delete 删除计划
func (h *PlanHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Plan ID is required")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), GetCompanyID(c), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Plan not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}

// Requirements 单计划备料汇总
func (h *PlanHandler) Requirements(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Plan ID is required")
		return
	}

	reqs, err := h.svc.Requirements(c.Request.Context(), GetCompanyID(c), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Plan not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, gin.H{"materials": reqs})
}

// Duplicate 复制计划
func (h *PlanHandler) Duplicate(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Plan ID is required")
		return
	}

	var cfg service.CopyConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Duplicate(c.Request.Context(), GetCompanyID(c), GetUserID(c), id, cfg)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Plan not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Created(c, p)
}
