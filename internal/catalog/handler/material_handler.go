package handler

import (
	"errors"

	"github.com/chuboware/chubo/internal/catalog/repository"
	"github.com/chuboware/chubo/internal/catalog/service"
	"github.com/gin-gonic/gin"
)

// MaterialHandler 食材处理器
type MaterialHandler struct {
	svc *service.MaterialService
}

// NewMaterialHandler 创建食材处理器
func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{svc: svc}
}

// List 获取食材列表（按显示顺序）
func (h *MaterialHandler) List(c *gin.Context) {
	materials, err := h.svc.List(c.Request.Context(), GetCompanyID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": materials})
}

// Create 创建食材
func (h *MaterialHandler) Create(c *gin.Context) {
	var req service.MaterialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.Create(c.Request.Context(), GetCompanyID(c), &req, GetUserID(c))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, m)
}

// Get 获取食材详情
func (h *MaterialHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Material ID is required")
		return
	}

	m, err := h.svc.Get(c.Request.Context(), GetCompanyID(c), id)
	if err != nil {
		NotFound(c, "Material not found")
		return
	}
	Success(c, m)
}

// Update 更新食材
func (h *MaterialHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Material ID is required")
		return
	}

	var req service.MaterialInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	m, err := h.svc.Update(c.Request.Context(), GetCompanyID(c), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Material not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, m)
}

// Delete 删除食材（被配方引用时拒绝）
func (h *MaterialHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Material ID is required")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), GetCompanyID(c), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Material not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, nil)
}

// OrderGroupHandler 订购组处理器
type OrderGroupHandler struct {
	svc *service.OrderGroupService
}

// NewOrderGroupHandler 创建订购组处理器
func NewOrderGroupHandler(svc *service.OrderGroupService) *OrderGroupHandler {
	return &OrderGroupHandler{svc: svc}
}

// List 获取订购组列表
func (h *OrderGroupHandler) List(c *gin.Context) {
	groups, err := h.svc.List(c.Request.Context(), GetCompanyID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": groups})
}

// Create 创建订购组
func (h *OrderGroupHandler) Create(c *gin.Context) {
	var req service.OrderGroupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	g, err := h.svc.Create(c.Request.Context(), GetCompanyID(c), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, g)
}

// Update 更新订购组
func (h *OrderGroupHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Order group ID is required")
		return
	}

	var req service.OrderGroupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	g, err := h.svc.Update(c.Request.Context(), GetCompanyID(c), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Order group not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, g)
}

// Delete 删除订购组（成员食材解除分组）
func (h *OrderGroupHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Order group ID is required")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), GetCompanyID(c), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Order group not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}
