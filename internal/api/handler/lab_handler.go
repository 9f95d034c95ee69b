package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"labtrack/backend/internal/dto"
	"labtrack/backend/internal/service"
	"labtrack/backend/pkg/response"
)

// LabHandler 实验室模块 HTTP 处理器
type LabHandler struct {
	labSvc service.LabService
}

// NewLabHandler 创建 LabHandler
func NewLabHandler(labSvc service.LabService) *LabHandler {
	return &LabHandler{labSvc: labSvc}
}

// ListLabs 获取实验室列表
// GET /api/v1/labs
func (h *LabHandler) ListLabs(c *gin.Context) {
	var req dto.LabListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	labs, err := h.labSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": labs})
}

// GetLab 获取实验室详情
// GET /api/v1/labs/:id
func (h *LabHandler) GetLab(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "实验室ID不能为空")
		return
	}

	lab, err := h.labSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleLabError(c, err)
		return
	}

	response.OK(c, lab)
}

// CreateLab 创建实验室
// POST /api/v1/labs
func (h *LabHandler) CreateLab(c *gin.Context) {
	var req dto.CreateLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	lab, err := h.labSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleLabError(c, err)
		return
	}

	response.Created(c, lab)
}

// UpdateLab 更新实验室
// PUT /api/v1/labs/:id
func (h *LabHandler) UpdateLab(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "实验室ID不能为空")
		return
	}

	var req dto.UpdateLabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	lab, err := h.labSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleLabError(c, err)
		return
	}

	response.OK(c, lab)
}

// DeleteLab 删除实验室
// DELETE /api/v1/labs/:id
func (h *LabHandler) DeleteLab(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "实验室ID不能为空")
		return
	}

	if err := h.labSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleLabError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleLabError 统一处理实验室模块业务错误
func (h *LabHandler) handleLabError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLabNotFound):
		response.NotFound(c, 13001, "实验室不存在")
	case errors.Is(err, service.ErrLabNameTaken):
		response.Conflict(c, 13002, "实验室名称已存在")
	case errors.Is(err, service.ErrLabHasDependents):
		response.Conflict(c, 13003, "实验室下存在时段或签到记录，无法删除")
	default:
		response.InternalError(c)
	}
}
