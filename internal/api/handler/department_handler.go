package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/service"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/response"
)

// DepartmentHandler 部门模块 HTTP 处理器
type DepartmentHandler struct {
	deptSvc service.DepartmentService
}

// NewDepartmentHandler 创建 DepartmentHandler
func NewDepartmentHandler(deptSvc service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{deptSvc: deptSvc}
}

// Create 创建部门
// POST /api/department/create
func (h *DepartmentHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.deptSvc.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, result)
}

// AssignHead 指定部门负责人
// POST /api/department/assign-head
func (h *DepartmentHandler) AssignHead(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignHeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.deptSvc.AssignHead(c.Request.Context(), callerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// List 部门列表
// GET /api/department
func (h *DepartmentHandler) List(c *gin.Context) {
	result, err := h.deptSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// GetByID 部门详情
// GET /api/department/:id
func (h *DepartmentHandler) GetByID(c *gin.Context) {
	result, err := h.deptSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除部门
// DELETE /api/department/:id
func (h *DepartmentHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.deptSvc.Delete(c.Request.Context(), callerID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, nil)
}
