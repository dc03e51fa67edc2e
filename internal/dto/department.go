package dto

import "time"

// ── 部门模块 DTO ──

// CreateDepartmentRequest 创建部门请求
type CreateDepartmentRequest struct {
	Name   string  `json:"name"   binding:"required,max=100"`
	HeadID *string `json:"headId" binding:"omitempty,objectid"`
}

// AssignHeadRequest 指定部门负责人请求
type AssignHeadRequest struct {
	DepartmentID string `json:"departmentId" binding:"required,objectid"`
	HeadID       string `json:"headId"       binding:"required,objectid"`
}

// DepartmentResponse 部门详情响应
type DepartmentResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	HeadID    *string          `json:"headId,omitempty"`
	Head      *UserSummary     `json:"head,omitempty"`
	Programs  []ProgramSummary `json:"programs"`
	CreatedAt time.Time        `json:"createdAt"`
}

// DeptBrief 关联展示用的部门摘要
type DeptBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
