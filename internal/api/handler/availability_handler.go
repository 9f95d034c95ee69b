package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"labtrack/backend/internal/dto"
	"labtrack/backend/internal/service"
	"labtrack/backend/pkg/response"
)

// AvailabilityHandler 今日可用性查询 HTTP 处理器
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// TodayAvailability 今日各时段容量状态
// GET /api/v1/availability/today
func (h *AvailabilityHandler) TodayAvailability(c *gin.Context) {
	result, err := h.availabilitySvc.Today(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// DayAvailability 指定星期的时段容量状态（签到数按今天统计）
// GET /api/v1/availability?day=1
func (h *AvailabilityHandler) DayAvailability(c *gin.Context) {
	var req dto.AvailabilityQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.availabilitySvc.ForDay(c.Request.Context(), req.Day)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDayOfWeek) {
			response.BadRequest(c, 10001, "无效的星期值")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
