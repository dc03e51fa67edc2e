package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/config"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
	apperrors "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/errors"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/metrics"
)

// ── 审计模块业务错误 ──

var (
	ErrInvalidAuditAction = apperrors.New(apperrors.KindValidation, 16001, "无效的操作类型")
	ErrInvalidPerformedBy = apperrors.New(apperrors.KindValidation, 16002, "操作人 ID 格式无效")
)

const (
	defaultAuditLimit = 20
	maxAuditLimit     = 200
)

// AuditService 审计日志业务接口
type AuditService interface {
	// Record 写入一条审计日志
	// 尽力而为：重试耗尽后记录错误日志与指标，不向调用方返回错误
	Record(ctx context.Context, action, actorID, entityType, entityID string, metadata map[string]interface{})
	List(ctx context.Context, req *dto.AuditLogListRequest) ([]dto.AuditLogResponse, error)
}

type auditService struct {
	cfg    *config.AuditConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAuditService 创建 AuditService 实例
func NewAuditService(cfg *config.AuditConfig, repo *repository.Repository, logger *zap.Logger) AuditService {
	return &auditService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Record ──────────────────────

func (s *auditService) Record(ctx context.Context, action, actorID, entityType, entityID string, metadata map[string]interface{}) {
	// 主操作已提交，客户端断开不应中断审计写入
	ctx = context.WithoutCancel(ctx)

	attempts := s.cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 1; i <= attempts; i++ {
		entry := &model.AuditLog{
			ActionType:  action,
			PerformedBy: actorID,
			EntityType:  entityType,
			EntityID:    entityID,
			Metadata:    model.JSONMap(metadata),
		}
		if err = s.repo.AuditLog.Create(ctx, entry); err == nil {
			return
		}
		if i < attempts && s.cfg.RetryBackoff > 0 {
			time.Sleep(time.Duration(i) * s.cfg.RetryBackoff)
		}
	}

	metrics.AuditWriteFailures.WithLabelValues(entityType, action).Inc()
	s.logger.Error("审计日志写入失败，已放弃",
		zap.String("action", action),
		zap.String("performed_by", actorID),
		zap.String("entity_type", entityType),
		zap.String("entity_id", entityID),
		zap.Any("metadata", metadata),
		zap.Int("attempts", attempts),
		zap.Error(err),
	)
}

// ────────────────────── List ──────────────────────

func (s *auditService) List(ctx context.Context, req *dto.AuditLogListRequest) ([]dto.AuditLogResponse, error) {
	if req.ActionType != "" && !model.IsValidAction(req.ActionType) {
		return nil, ErrInvalidAuditAction
	}
	if req.PerformedBy != "" && !model.IsObjectID(req.PerformedBy) {
		return nil, ErrInvalidPerformedBy
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	entries, err := s.repo.AuditLog.List(ctx, repository.AuditLogFilter{
		EntityType:  req.EntityType,
		ActionType:  req.ActionType,
		PerformedBy: req.PerformedBy,
	}, limit)
	if err != nil {
		s.logger.Error("查询审计日志失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AuditLogResponse, 0, len(entries))
	for i := range entries {
		result = append(result, toAuditLogResponse(&entries[i]))
	}
	return result, nil
}
