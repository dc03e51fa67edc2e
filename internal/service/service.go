package service

import (
	"go.uber.org/zap"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/config"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Department DepartmentService
	Program    ProgramService
	Budget     BudgetService
	Audit      AuditService
	Report     ReportService
	Export     ExportService
	ERP        ERPService
}

// NewService 创建 Service 聚合
// notifier 为 nil 时数据变更不触发看板刷新
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	notifier ChangeNotifier,
	logger *zap.Logger,
) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	audit := NewAuditService(&cfg.Audit, repo, logger)
	report := NewReportService(repo, logger)

	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, audit, notifier, logger),
		User:       NewUserService(&cfg.Auth, repo, audit, notifier, logger),
		Department: NewDepartmentService(repo, audit, notifier, logger),
		Program:    NewProgramService(repo, audit, notifier, logger),
		Budget:     NewBudgetService(repo, audit, logger),
		Audit:      audit,
		Report:     report,
		Export:     NewExportService(report, logger),
		ERP:        NewERPService(repo, audit, notifier, logger),
	}
}
