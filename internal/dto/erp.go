package dto

// ── ERP 同步 DTO ──

// ExternalProject ERP 侧项目结构，字段名沿用 ERP 约定
type ExternalProject struct {
	ProjectName    string `json:"project_name"`
	ProjectDesc    string `json:"project_desc"`
	ProjectStatus  string `json:"project_status"`
	ProjectOfficer string `json:"project_officer"`
	Start          string `json:"start"`
	End            string `json:"end"`
}

// SyncProjectsRequest ERP 同步请求
type SyncProjectsRequest struct {
	Projects []ExternalProject `json:"projects" binding:"required"`
}

// SyncProjectsResponse ERP 同步结果
type SyncProjectsResponse struct {
	Count      int      `json:"count"`
	ProgramIDs []string `json:"programIds"`
}
