package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/service"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/response"
)

// BudgetHandler 预算模块 HTTP 处理器
type BudgetHandler struct {
	budgetSvc service.BudgetService
}

// NewBudgetHandler 创建 BudgetHandler
func NewBudgetHandler(budgetSvc service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetSvc: budgetSvc}
}

// Create 创建预算
// POST /api/budget
func (h *BudgetHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.budgetSvc.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Created(c, result)
}

// List 预算列表
// GET /api/budget
func (h *BudgetHandler) List(c *gin.Context) {
	result, err := h.budgetSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// Update 部分更新预算
// PATCH /api/budget/:id
func (h *BudgetHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	result, err := h.budgetSvc.Update(c.Request.Context(), callerID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除预算
// DELETE /api/budget/:id
func (h *BudgetHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.budgetSvc.Delete(c.Request.Context(), callerID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, nil)
}
