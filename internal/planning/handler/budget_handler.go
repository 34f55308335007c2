package handler

import (
	"time"

	"github.com/chuboware/chubo/internal/planning/service"
	"github.com/gin-gonic/gin"
)

// BudgetHandler 月度预算处理器
type BudgetHandler struct {
	svc *service.BudgetService
}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler(svc *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{svc: svc}
}

// Monthly 月度目标实绩汇总
func (h *BudgetHandler) Monthly(c *gin.Context) {
	now := time.Now()
	year := GetQueryInt(c, "year", now.Year())
	month := GetQueryInt(c, "month", int(now.Month()))
	if month < 1 || month > 12 {
		BadRequest(c, "month must be 1-12")
		return
	}

	summary, err := h.svc.Monthly(c.Request.Context(), GetCompanyID(c), GetStoreID(c), year, time.Month(month))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, summary)
}
