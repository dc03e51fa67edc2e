package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/service"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler 报表模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
	exportSvc service.ExportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService, exportSvc service.ExportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, exportSvc: exportSvc}
}

// Summary 总览统计
// GET /api/report/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	result, err := h.reportSvc.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// ProjectsPerDepartment 按部门统计项目
// GET /api/report/projects-per-department
func (h *ReportHandler) ProjectsPerDepartment(c *gin.Context) {
	result, err := h.reportSvc.ProjectsPerDepartment(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// ActiveUsers 活跃用户
// GET /api/report/active-users
func (h *ReportHandler) ActiveUsers(c *gin.Context) {
	result, err := h.reportSvc.ActiveUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, result)
}

// Export 导出报表
// GET /api/report/export
func (h *ReportHandler) Export(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportReport(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
