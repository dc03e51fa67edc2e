package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/service"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/response"
)

// ERPHandler ERP 同步 HTTP 处理器
type ERPHandler struct {
	erpSvc service.ERPService
}

// NewERPHandler 创建 ERPHandler
func NewERPHandler(erpSvc service.ERPService) *ERPHandler {
	return &ERPHandler{erpSvc: erpSvc}
}

// SyncProjects 导入 ERP 项目
// POST /api/erp/sync-projects
// POST /api/erp/sync
func (h *ERPHandler) SyncProjects(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	// projects 不是数组时绑定失败
	var req dto.SyncProjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.erpSvc.SyncProjects(c.Request.Context(), callerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, result)
}
