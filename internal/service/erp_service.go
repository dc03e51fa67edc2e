package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/erp"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
	apperrors "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/errors"
)

// ── ERP 同步业务错误 ──

var (
	ErrERPEmptyBatch = apperrors.New(apperrors.KindValidation, 18001, "projects 不能为空")
)

// ERPService ERP 同步业务接口
type ERPService interface {
	// SyncProjects 批量导入 ERP 项目，任一记录无效则整批拒绝
	SyncProjects(ctx context.Context, callerID string, req *dto.SyncProjectsRequest) (*dto.SyncProjectsResponse, error)
}

type erpService struct {
	repo     *repository.Repository
	audit    AuditService
	notifier ChangeNotifier
	logger   *zap.Logger
}

// NewERPService 创建 ERPService 实例
func NewERPService(
	repo *repository.Repository,
	audit AuditService,
	notifier ChangeNotifier,
	logger *zap.Logger,
) ERPService {
	return &erpService{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
	}
}

// ═══════════════════════════════════════════════════════════
// SyncProjects — ERP 项目批量导入
// ═══════════════════════════════════════════════════════════
//
// 流程：
//  1. 逐条映射，首个失败记录带序号拒绝整批
//  2. 校验负责人存在，项目部门取负责人所属部门
//  3. 单事务批量写入项目及其预算（last_synced_with_erp = now）
//  4. 提交后写入一条 ERP_SYNC 审计

func (s *erpService) SyncProjects(ctx context.Context, callerID string, req *dto.SyncProjectsRequest) (*dto.SyncProjectsResponse, error) {
	if len(req.Projects) == 0 {
		return nil, ErrERPEmptyBatch
	}

	// 1. 映射
	drafts := make([]erp.ProgramDraft, 0, len(req.Projects))
	for i, ext := range req.Projects {
		draft, err := erp.Transform(ext)
		if err != nil {
			return nil, apperrors.Validation(18002, fmt.Sprintf("第 %d 条记录无效: %s", i, err.Error()))
		}
		drafts = append(drafts, draft)
	}

	// 2. 负责人校验（同一负责人只查一次）
	officers := make(map[string]*model.User)
	for i, d := range drafts {
		if _, ok := officers[d.OfficerID]; ok {
			continue
		}
		user, err := s.repo.User.GetByID(ctx, d.OfficerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.New(apperrors.KindNotFound, 18003,
					fmt.Sprintf("第 %d 条记录的负责人不存在", i))
			}
			s.logger.Error("查询项目负责人失败", zap.String("officer_id", d.OfficerID), zap.Error(err))
			return nil, err
		}
		if user.DepartmentID == nil || *user.DepartmentID == "" {
			return nil, apperrors.Validation(18004, fmt.Sprintf("第 %d 条记录的负责人未归属任何部门", i))
		}
		officers[d.OfficerID] = user
	}

	// 3. 组装项目与预算
	now := time.Now().UTC()
	programs := make([]model.Program, 0, len(drafts))
	budgets := make([]model.Budget, 0, len(drafts))
	ids := make([]string, 0, len(drafts))
	for _, d := range drafts {
		programID := model.NewID()
		budgetID := model.NewID()
		programs = append(programs, model.Program{
			ObjectIDModel: model.ObjectIDModel{ID: programID},
			Title:         d.Title,
			Description:   d.Description,
			Status:        d.Status,
			OfficerID:     d.OfficerID,
			DepartmentID:  *officers[d.OfficerID].DepartmentID,
			StartDate:     d.StartDate,
			EndDate:       d.EndDate,
			BudgetID:      &budgetID,
			CreatedBy:     callerID,
		})
		budgets = append(budgets, model.Budget{
			ObjectIDModel:     model.ObjectIDModel{ID: budgetID},
			ProgramID:         programID,
			Currency:          model.DefaultCurrency,
			LastSyncedWithERP: &now,
		})
		ids = append(ids, programID)
	}

	err := runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Program.BatchCreate(ctx, programs); err != nil {
			return err
		}
		return txRepo.Budget.BatchCreate(ctx, budgets)
	})
	if err != nil {
		s.logger.Error("ERP 项目导入失败", zap.Int("count", len(programs)), zap.Error(err))
		return nil, err
	}

	// 4. 整批只记一条审计
	s.audit.Record(ctx, model.ActionERPSync, callerID, model.EntityProgram, ids[0], map[string]interface{}{
		"count":   len(ids),
		"firstId": ids[0],
	})
	s.notifier.NotifyChange()

	s.logger.Info("ERP 项目导入完成", zap.Int("count", len(ids)), zap.String("performed_by", callerID))

	return &dto.SyncProjectsResponse{Count: len(ids), ProgramIDs: ids}, nil
}
