package model

import "time"

// 审计动作
const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionERPSync = "ERP_SYNC"
)

// IsValidAction 判断审计动作是否合法
func IsValidAction(action string) bool {
	switch action {
	case ActionCreate, ActionUpdate, ActionDelete, ActionERPSync:
		return true
	}
	return false
}

// 审计主体类型（自由字符串，以下为系统内部使用的取值）
const (
	EntityUser       = "User"
	EntityDepartment = "Department"
	EntityProgram    = "Program"
	EntityBudget     = "Budget"
)

// AuditLog 审计日志表 — 对应 audit_logs，只追加
type AuditLog struct {
	ObjectIDModel
	ActionType  string    `gorm:"type:varchar(20);not null"         json:"actionType"`
	PerformedBy string    `gorm:"type:char(24);not null;index"      json:"performedBy"`
	EntityType  string    `gorm:"type:varchar(50);not null;index"   json:"entityType"`
	EntityID    string    `gorm:"type:char(24);not null"            json:"entityId"`
	Metadata    JSONMap   `gorm:"type:jsonb;not null;default:'{}'"  json:"metadata"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`

	// 关联
	Actor *User `gorm:"foreignKey:PerformedBy" json:"actor,omitempty"`
}

// TableName 指定表名
func (AuditLog) TableName() string { return "audit_logs" }
