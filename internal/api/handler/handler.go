package handler

import (
	"github.com/abbas-abdulwahab-shr/Management-Information-System/config"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dashboard"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Department *DepartmentHandler
	Program    *ProgramHandler
	Budget     *BudgetHandler
	Audit      *AuditHandler
	Report     *ReportHandler
	ERP        *ERPHandler
	Dashboard  *DashboardHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, hub *dashboard.Hub) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User),
		Department: NewDepartmentHandler(svc.Department),
		Program:    NewProgramHandler(svc.Program),
		Budget:     NewBudgetHandler(svc.Budget),
		Audit:      NewAuditHandler(svc.Audit),
		Report:     NewReportHandler(svc.Report, svc.Export),
		ERP:        NewERPHandler(svc.ERP),
		Dashboard:  NewDashboardHandler(&cfg.Dashboard, hub, svc.Report),
	}
}
