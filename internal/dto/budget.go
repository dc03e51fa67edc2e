package dto

import "time"

// ── 预算模块 DTO ──

// CreateBudgetRequest 创建预算请求
// 金额的非负校验在 Service 层完成，以便返回统一错误码
type CreateBudgetRequest struct {
	ProgramID       string   `json:"programId"       binding:"required,objectid"`
	AllocatedAmount *float64 `json:"allocatedAmount" binding:"required"`
	SpentAmount     *float64 `json:"spentAmount"`
	Currency        string   `json:"currency"        binding:"omitempty,len=3,alpha"`
}

// UpdateBudgetRequest 部分更新预算请求
type UpdateBudgetRequest struct {
	AllocatedAmount *float64 `json:"allocatedAmount"`
	SpentAmount     *float64 `json:"spentAmount"`
	Currency        *string  `json:"currency" binding:"omitempty,len=3,alpha"`
}

// BudgetResponse 预算响应
type BudgetResponse struct {
	ID                string        `json:"id"`
	ProgramID         string        `json:"programId"`
	Program           *ProgramBrief `json:"program,omitempty"`
	AllocatedAmount   float64       `json:"allocatedAmount"`
	SpentAmount       float64       `json:"spentAmount"`
	Currency          string        `json:"currency"`
	LastSyncedWithERP *time.Time    `json:"lastSyncedWithERP,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// BudgetBrief 项目详情中的预算摘要
type BudgetBrief struct {
	ID              string  `json:"id"`
	AllocatedAmount float64 `json:"allocatedAmount"`
	SpentAmount     float64 `json:"spentAmount"`
	Currency        string  `json:"currency"`
}
