package handler

import (
	"errors"

	"github.com/chuboware/chubo/internal/account/repository"
	"github.com/chuboware/chubo/internal/account/service"
	"github.com/gin-gonic/gin"
)

// StoreHandler 门店处理器
type StoreHandler struct {
	svc *service.StoreService
}

// NewStoreHandler 创建门店处理器
func NewStoreHandler(svc *service.StoreService) *StoreHandler {
	return &StoreHandler{svc: svc}
}

// List 门店列表
func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.svc.List(c.Request.Context(), GetCompanyID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": stores})
}

// Create 创建门店
func (h *StoreHandler) Create(c *gin.Context) {
	var req service.StoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	store, err := h.svc.Create(c.Request.Context(), GetCompanyID(c), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, store)
}

// Get 门店详情
func (h *StoreHandler) Get(c *gin.Context) {
	store, err := h.svc.Get(c.Request.Context(), GetCompanyID(c), c.Param("id"))
	if err != nil {
		NotFound(c, "Store not found")
		return
	}
	Success(c, store)
}

// Update 更新门店
func (h *StoreHandler) Update(c *gin.Context) {
	var req service.StoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	store, err := h.svc.Update(c.Request.Context(), GetCompanyID(c), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Store not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, store)
}

// Delete 删除门店
func (h *StoreHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), GetCompanyID(c), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Store not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}

// UserHandler 用户处理器
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler 创建用户处理器
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List 用户列表
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context(), GetCompanyID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": users})
}

// Create 创建用户
func (h *UserHandler) Create(c *gin.Context) {
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Create(c.Request.Context(), GetCompanyID(c), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, user)
}

// Update 更新用户
func (h *UserHandler) Update(c *gin.Context) {
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.Update(c.Request.Context(), GetCompanyID(c), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "User not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, user)
}
