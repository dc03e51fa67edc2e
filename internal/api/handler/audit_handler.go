package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/service"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/response"
)

// AuditHandler 审计日志 HTTP 处理器
type AuditHandler struct {
	auditSvc service.AuditService
}

// NewAuditHandler 创建 AuditHandler
func NewAuditHandler(auditSvc service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// List 审计日志列表
// GET /api/auditlog?entityType=&actionType=&performedBy=&limit=
func (h *AuditHandler) List(c *gin.Context) {
	var req dto.AuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.auditSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}
