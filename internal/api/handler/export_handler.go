package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/jhappydev/gongsa-server/internal/service"
	"github.com/jhappydev/gongsa-server/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRanking 导出成员学习排行
// GET /api/group-member/:groupUID/export
func (h *ExportHandler) ExportRanking(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupUID, ok := parseUIDParam(c, "groupUID")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportRanking(c.Request.Context(), groupUID, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	sendFile(c, buf, filename, contentTypeXLSX)
}

// ExportCalendar 导出小组学习日历
// GET /api/study-group/:groupUID/calendar
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	groupUID, ok := parseUIDParam(c, "groupUID")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), groupUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	sendFile(c, buf, filename, contentTypeICS)
}

// sendFile 设置下载响应头并写出文件
func sendFile(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
