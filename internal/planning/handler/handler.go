package handler

import (
	"time"

	"github.com/chuboware/chubo/internal/planning/service"
	"github.com/chuboware/chubo/internal/shared/numparse"
	"github.com/gin-gonic/gin"
)

// Handlers 计划处理器集合
type Handlers struct {
	Plan     *PlanHandler
	Schedule *ScheduleHandler
	Budget   *BudgetHandler
}

// NewHandlers 创建计划处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Plan:     NewPlanHandler(svc.Plan),
		Schedule: NewScheduleHandler(svc.Schedule, svc.Export),
		Budget:   NewBudgetHandler(svc.Budget),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetCompanyID 从上下文获取公司ID
func GetCompanyID(c *gin.Context) string {
	companyID, _ := c.Get("company_id")
	if id, ok := companyID.(string); ok {
		return id
	}
	return ""
}

// GetStoreID 门店：query优先，缺省用token里的
func GetStoreID(c *gin.Context) string {
	if storeID := c.Query("store_id"); storeID != "" {
		return storeID
	}
	storeID, _ := c.Get("store_id")
	if id, ok := storeID.(string); ok {
		return id
	}
	return ""
}

// GetQueryDate 从请求获取日期参数（YYYY-MM-DD）
func GetQueryDate(c *gin.Context, key string) (time.Time, bool) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, false
	}
	date, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// GetQueryInt 从请求获取整数参数（全角数字・千位分隔符也接受）
func GetQueryInt(c *gin.Context, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := numparse.ParseInt(v); err == nil {
			return n
		}
	}
	return def
}
