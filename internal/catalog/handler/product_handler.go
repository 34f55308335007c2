package handler

import (
	"errors"
	"time"

	"github.com/chuboware/chubo/internal/catalog/repository"
	"github.com/chuboware/chubo/internal/catalog/service"
	"github.com/gin-gonic/gin"
)

// ProductHandler 商品处理器
type ProductHandler struct {
	svc    *service.ProductService
	images *service.ImageService
}

// NewProductHandler 创建商品处理器
func NewProductHandler(svc *service.ProductService, images *service.ImageService) *ProductHandler {
	return &ProductHandler{svc: svc, images: images}
}

// List 获取商品列表
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context(), GetCompanyID(c))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": products})
}

// Create 创建商品（含嵌套配方行）
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.ProductInput
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

// Get 获取商品详情（含配方）
func (h *ProductHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Product ID is required")
		return
	}

	p, err := h.svc.Get(c.Request.Context(), GetCompanyID(c), id)
	if err != nil {
		NotFound(c, "Product not found")
		return
	}
	Success(c, p)
}

// Update 更新商品与配方
func (h *ProductHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Product ID is required")
		return
	}

	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Update(c.Request.Context(), GetCompanyID(c), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Product not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, p)
}

// Delete 删除商品
func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Product ID is required")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), GetCompanyID(c), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Product not found")
			return
		}
		InternalError(c, err.Error())
		return
	}
	Success(c, nil)
}

// MaterialPreview 单品备料预览
func (h *ProductHandler) MaterialPreview(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		BadRequest(c, "Product ID is required")
		return
	}

	count := GetQueryInt(c, "count", 1)
	reqs, err := h.svc.MaterialPreview(c.Request.Context(), GetCompanyID(c), id, count)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "Product not found")
			return
		}
		BadRequest(c, err.Error())
		return
	}
	Success(c, gin.H{"production_count": count, "materials": reqs})
}

// UploadImage 上传商品图片
func (h *ProductHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "File is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		InternalError(c, "open file: "+err.Error())
		return
	}
	defer src.Close()

	key, err := h.images.Upload(c.Request.Context(), GetCompanyID(c), src, file.Filename, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"image_key": key})
}

// ImageURL 获取商品图片的临时访问地址
func (h *ProductHandler) ImageURL(c *gin.Context) {
	id := c.Param("id")
	p, err := h.svc.Get(c.Request.Context(), GetCompanyID(c), id)
	if err != nil {
		NotFound(c, "Product not found")
		return
	}
	if p.ImageKey == "" {
		NotFound(c, "Product has no image")
		return
	}

	url, err := h.images.PresignedURL(c.Request.Context(), p.ImageKey, 15*time.Minute)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"url": url})
}
