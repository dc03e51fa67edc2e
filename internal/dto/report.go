package dto

import "time"

// ── 报表与看板 DTO ──

// SummaryResponse 总览统计
type SummaryResponse struct {
	TotalPrograms int64 `json:"totalPrograms"`
	TotalUsers    int64 `json:"totalUsers"`
}

// DepartmentProjects 按负责人部门分组的项目
// DepartmentID 为空表示负责人未归属任何部门
type DepartmentProjects struct {
	DepartmentID   *string  `json:"departmentId"`
	DepartmentName *string  `json:"departmentName"`
	Projects       []string `json:"projects"`
	Count          int64    `json:"count"`
}

// DashboardSnapshot 看板快照，由三个报表聚合组成
type DashboardSnapshot struct {
	Summary               SummaryResponse      `json:"summary"`
	ProjectsPerDepartment []DepartmentProjects `json:"projectsPerDepartment"`
	ActiveUsers           []UserResponse       `json:"activeUsers"`
	GeneratedAt           time.Time            `json:"generatedAt"`
}
