package dto

import "time"

// ── 审计日志 DTO ──

// AuditLogListRequest 审计日志查询参数，各条件之间为 AND
type AuditLogListRequest struct {
	EntityType  string `form:"entityType"  binding:"max=50"`
	ActionType  string `form:"actionType"`
	PerformedBy string `form:"performedBy"`
	Limit       int    `form:"limit"`
}

// AuditLogResponse 审计日志条目
type AuditLogResponse struct {
	ID          string                 `json:"id"`
	ActionType  string                 `json:"actionType"`
	PerformedBy string                 `json:"performedBy"`
	Actor       *UserSummary           `json:"actor,omitempty"`
	EntityType  string                 `json:"entityType"`
	EntityID    string                 `json:"entityId"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"createdAt"`
}
