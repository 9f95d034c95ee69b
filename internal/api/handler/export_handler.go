package handler

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"labtrack/backend/internal/dto"
	"labtrack/backend/internal/service"
	"labtrack/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAttendance 导出区间签到台账为 Excel（教师）
// GET /api/v1/export/attendance?from=2025-09-01&to=2025-09-30
func (h *ExportHandler) ExportAttendance(c *gin.Context) {
	var req dto.StatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		response.BadRequest(c, 10001, "起始日期格式无效")
		return
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		response.BadRequest(c, 10001, "结束日期格式无效")
		return
	}

	buf, filename, err := h.exportSvc.ExportAttendanceSheet(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, service.ErrExportNoRecords) {
			response.NotFound(c, 17001, "该区间内无签到记录")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportSessionPlan 导出每周时段安排为 iCalendar
// GET /api/v1/export/sessions.ics
func (h *ExportHandler) ExportSessionPlan(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportSessionPlan(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrExportNoSessions) {
			response.NotFound(c, 17002, "暂无实验时段可导出")
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%s`, filename))
	c.Data(200, "text/calendar; charset=utf-8", buf.Bytes())
}
