package dto

import "time"

// ── 项目模块 DTO ──

// CreateProgramRequest 创建项目请求，状态固定为 PLANNED
type CreateProgramRequest struct {
	Title             string  `json:"title"             binding:"required,max=200"`
	Description       string  `json:"description"`
	OfficerID         string  `json:"officerId"         binding:"required,objectid"`
	DepartmentID      string  `json:"departmentId"      binding:"required,objectid"`
	StartDate         string  `json:"startDate"         binding:"required"`
	EndDate           *string `json:"endDate"`
	PrimarySponsor    string  `json:"primarySponsor"    binding:"max=200"`
	SupportingSponsor string  `json:"supportingSponsor" binding:"max=200"`
	Impact            string  `json:"impact"`
	Beneficiaries     *int    `json:"beneficiaries"     binding:"omitempty,min=0"`
	Location          string  `json:"location"          binding:"max=200"`
}

// UpdateProgramStatusRequest 更新项目状态请求
// 状态取值由 Service 校验，以便返回统一的状态错误码
type UpdateProgramStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ProgramListRequest 项目列表过滤条件
type ProgramListRequest struct {
	Status       string `form:"status"       binding:"omitempty,program_status"`
	DepartmentID string `form:"departmentId" binding:"omitempty,objectid"`
	OfficerID    string `form:"officerId"    binding:"omitempty,objectid"`
}

// ProgramResponse 项目详情响应
type ProgramResponse struct {
	ID                string       `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Status            string       `json:"status"`
	OfficerID         string       `json:"officerId"`
	Officer           *UserSummary `json:"officer,omitempty"`
	DepartmentID      string       `json:"departmentId"`
	Department        *DeptBrief   `json:"department,omitempty"`
	StartDate         time.Time    `json:"startDate"`
	EndDate           *time.Time   `json:"endDate,omitempty"`
	PrimarySponsor    string       `json:"primarySponsor,omitempty"`
	SupportingSponsor string       `json:"supportingSponsor,omitempty"`
	Impact            string       `json:"impact,omitempty"`
	Beneficiaries     *int         `json:"beneficiaries,omitempty"`
	Location          string       `json:"location,omitempty"`
	BudgetID          *string      `json:"budgetId,omitempty"`
	Budget            *BudgetBrief `json:"budget,omitempty"`
	CreatedBy         string       `json:"createdBy"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// ProgramSummary 部门详情中的项目摘要
type ProgramSummary struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Status  string       `json:"status"`
	Officer *UserSummary `json:"officer,omitempty"`
}

// ProgramBrief 预算列表中的项目摘要
type ProgramBrief struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}
