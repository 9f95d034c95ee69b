package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"labtrack/backend/internal/dto"
	"labtrack/backend/internal/service"
	"labtrack/backend/pkg/response"
)

// AttendanceHandler 签到台账 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// MarkAttendance 学生签到
// POST /api/v1/attendance
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.Mark(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, result)
}

// ListMyAttendance 查询本人签到记录
// GET /api/v1/attendance/mine
func (h *AttendanceHandler) ListMyAttendance(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// DeleteMyAttendance 学生撤销本人签到
// DELETE /api/v1/attendance/:id
// 记录不存在或不属于本人时返回 200 {deleted:false}
func (h *AttendanceHandler) DeleteMyAttendance(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "记录ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.DeleteOwn(c.Request.Context(), id, userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// ListPendingAttendance 待审批记录列表（教师）
// GET /api/v1/attendance/pending
func (h *AttendanceHandler) ListPendingAttendance(c *gin.Context) {
	var req dto.PendingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.ListPending(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// ListSessionAttendance 按时段查询签到记录（教师）
// GET /api/v1/sessions/:id/attendance
func (h *AttendanceHandler) ListSessionAttendance(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "时段ID不能为空")
		return
	}

	var req dto.SessionAttendanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.ListBySession(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// ApproveAttendance 审批通过（教师，幂等）
// POST /api/v1/attendance/:id/approve
func (h *AttendanceHandler) ApproveAttendance(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "记录ID不能为空")
		return
	}

	result, err := h.attendanceSvc.Approve(c.Request.Context(), id)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// RejectAttendance 驳回（教师，删除记录）
// POST /api/v1/attendance/:id/reject
func (h *AttendanceHandler) RejectAttendance(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "记录ID不能为空")
		return
	}

	if err := h.attendanceSvc.Reject(c.Request.Context(), id); err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, nil)
}

// AttendanceStats 区间统计（教师）
// GET /api/v1/attendance/stats
func (h *AttendanceHandler) AttendanceStats(c *gin.Context) {
	var req dto.StatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.Stats(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// handleAttendanceError 统一处理签到模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAttendanceNotFound):
		response.NotFound(c, 16001, "签到记录不存在")
	case errors.Is(err, service.ErrLabSessionNotFound):
		response.NotFound(c, 14001, "实验时段不存在")
	case errors.Is(err, service.ErrDuplicateAttendance):
		response.Conflict(c, 16002, "今日已在该时段签到")
	case errors.Is(err, service.ErrOutsideTimeWindow):
		response.UnprocessableEntity(c, 16003, "当前不在该时段的签到时间窗口内")
	default:
		response.InternalError(c)
	}
}
