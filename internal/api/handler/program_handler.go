package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/service"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/response"
)

// ProgramHandler 项目模块 HTTP 处理器
type ProgramHandler struct {
	programSvc service.ProgramService
}

// NewProgramHandler 创建 ProgramHandler
func NewProgramHandler(programSvc service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programSvc: programSvc}
}

// Create 创建项目（同时生成预算）
// POST /api/program
// POST /api/program/create
func (h *ProgramHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.programSvc.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateStatus 更新项目状态
// PATCH /api/program/:id/status
func (h *ProgramHandler) UpdateStatus(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProgramStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.programSvc.UpdateStatus(c.Request.Context(), callerID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// List 项目列表
// GET /api/program?status=&departmentId=&officerId=
func (h *ProgramHandler) List(c *gin.Context) {
	var req dto.ProgramListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.programSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// GetByID 项目详情
// GET /api/program/:id
func (h *ProgramHandler) GetByID(c *gin.Context) {
	result, err := h.programSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}
