package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"labtrack/backend/internal/dto"
	"labtrack/backend/internal/service"
	"labtrack/backend/pkg/response"
)

// LabSessionHandler 实验时段模块 HTTP 处理器
type LabSessionHandler struct {
	sessionSvc service.LabSessionService
}

// NewLabSessionHandler 创建 LabSessionHandler
func NewLabSessionHandler(sessionSvc service.LabSessionService) *LabSessionHandler {
	return &LabSessionHandler{sessionSvc: sessionSvc}
}

// ListSessions 获取实验时段列表
// GET /api/v1/sessions
func (h *LabSessionHandler) ListSessions(c *gin.Context) {
	var req dto.LabSessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sessions, err := h.sessionSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": sessions})
}

// GetSession 获取实验时段详情
// GET /api/v1/sessions/:id
func (h *LabSessionHandler) GetSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "时段ID不能为空")
		return
	}

	session, err := h.sessionSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, session)
}

// CreateSession 创建实验时段
// POST /api/v1/sessions
func (h *LabSessionHandler) CreateSession(c *gin.Context) {
	var req dto.CreateLabSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.Created(c, session)
}

// UpdateSession 更新实验时段
// PUT /api/v1/sessions/:id
func (h *LabSessionHandler) UpdateSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "时段ID不能为空")
		return
	}

	var req dto.UpdateLabSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, session)
}

// DeleteSession 删除实验时段
// DELETE /api/v1/sessions/:id
func (h *LabSessionHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "时段ID不能为空")
		return
	}

	if err := h.sessionSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSessionError 统一处理实验时段模块业务错误
func (h *LabSessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLabSessionNotFound):
		response.NotFound(c, 14001, "实验时段不存在")
	case errors.Is(err, service.ErrLabNotFound):
		response.NotFound(c, 13001, "实验室不存在")
	case errors.Is(err, service.ErrScheduleConflict):
		response.Conflict(c, 14002, "该时段与同实验室已有时段重叠")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 14003, "时间格式无效或开始时间不早于结束时间")
	case errors.Is(err, service.ErrSessionHasAttendance):
		response.Conflict(c, 14004, "时段下存在签到记录，无法删除")
	default:
		response.InternalError(c)
	}
}
