package dto

import "time"

// ── 用户模块 DTO ──

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName"  binding:"omitempty,min=1,max=100"`
	Password  *string `json:"password"  binding:"omitempty,min=6,max=72"`
}

// AssignRoleRequest 分配角色请求
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,role"`
}

// AssignDepartmentRequest 调整所属部门请求，departmentId 为空表示移出部门
type AssignDepartmentRequest struct {
	DepartmentID *string `json:"departmentId" binding:"omitempty,objectid"`
}

// UserResponse 用户信息响应（不含密码）
type UserResponse struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	DepartmentID *string    `json:"departmentId,omitempty"`
	Department   *DeptBrief `json:"department,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// UserSummary 关联展示用的用户摘要
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}
