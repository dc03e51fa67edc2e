package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
)

// AuditLogFilter 审计日志过滤条件，各条件之间为 AND，空字段表示不过滤
type AuditLogFilter struct {
	EntityType  string
	ActionType  string
	PerformedBy string
}

// AuditLogRepository 审计日志数据访问接口
// 只追加：不提供更新与删除
type AuditLogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter, limit int) ([]model.AuditLog, error)
}

// auditLogRepo AuditLogRepository 的 GORM 实现
type auditLogRepo struct {
	db *gorm.DB
}

// NewAuditLogRepo 创建 AuditLogRepository 实例
func NewAuditLogRepo(db *gorm.DB) AuditLogRepository {
	return &auditLogRepo{db: db}
}

func (r *auditLogRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Omit("Actor").Create(entry).Error
}

// List 按创建时间倒序返回，id 作为次级排序保证结果稳定
func (r *auditLogRepo) List(ctx context.Context, filter AuditLogFilter, limit int) ([]model.AuditLog, error) {
	db := r.db.WithContext(ctx).Preload("Actor")
	if filter.EntityType != "" {
		db = db.Where("entity_type = ?", filter.EntityType)
	}
	if filter.ActionType != "" {
		db = db.Where("action_type = ?", filter.ActionType)
	}
	if filter.PerformedBy != "" {
		db = db.Where("performed_by = ?", filter.PerformedBy)
	}

	var entries []model.AuditLog
	err := db.Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
