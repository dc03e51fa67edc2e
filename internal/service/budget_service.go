package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
	apperrors "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/errors"
)

// ── 预算模块业务错误 ──

var (
	ErrBudgetNotFound = apperrors.New(apperrors.KindNotFound, 15001, "预算不存在")
	ErrBudgetExists   = apperrors.New(apperrors.KindConflict, 15002, "该项目已存在预算")
	ErrNegativeAmount = apperrors.New(apperrors.KindValidation, 15003, "金额不能为负数")
)

// BudgetService 预算业务接口
type BudgetService interface {
	Create(ctx context.Context, callerID string, req *dto.CreateBudgetRequest) (*dto.BudgetResponse, error)
	List(ctx context.Context) ([]dto.BudgetResponse, error)
	Update(ctx context.Context, callerID, id string, req *dto.UpdateBudgetRequest) (*dto.BudgetResponse, error)
	Delete(ctx context.Context, callerID, id string) error
}

type budgetService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewBudgetService 创建 BudgetService 实例
func NewBudgetService(repo *repository.Repository, audit AuditService, logger *zap.Logger) BudgetService {
	return &budgetService{repo: repo, audit: audit, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *budgetService) Create(ctx context.Context, callerID string, req *dto.CreateBudgetRequest) (*dto.BudgetResponse, error) {
	if req.AllocatedAmount == nil {
		return nil, apperrors.ErrInvalidParams
	}
	if *req.AllocatedAmount < 0 || (req.SpentAmount != nil && *req.SpentAmount < 0) {
		return nil, ErrNegativeAmount
	}
	if !model.IsObjectID(req.ProgramID) {
		return nil, apperrors.ErrInvalidID
	}

	// 1. 项目存在性
	program, err := s.repo.Program.GetByID(ctx, req.ProgramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询项目失败", zap.Error(err))
		return nil, err
	}

	// 2. 一个项目只能有一份预算
	if _, err := s.repo.Budget.GetByProgramID(ctx, program.ID); err == nil {
		return nil, ErrBudgetExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询预算失败", zap.Error(err))
		return nil, err
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = model.DefaultCurrency
	}
	budget := &model.Budget{
		ObjectIDModel:   model.ObjectIDModel{ID: model.NewID()},
		ProgramID:       program.ID,
		AllocatedAmount: *req.AllocatedAmount,
		Currency:        currency,
	}
	if req.SpentAmount != nil {
		budget.SpentAmount = *req.SpentAmount
	}

	// 3. 写入预算并回填项目 budget_id
	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Budget.Create(ctx, budget); err != nil {
			return err
		}
		return txRepo.Program.UpdateBudgetID(ctx, program.ID, &budget.ID)
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrBudgetExists
		}
		s.logger.Error("创建预算失败", zap.String("program_id", program.ID), zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, model.ActionCreate, callerID, model.EntityBudget, budget.ID, map[string]interface{}{
		"programId":       program.ID,
		"allocatedAmount": budget.AllocatedAmount,
		"currency":        budget.Currency,
	})

	budget.Program = program
	resp := toBudgetResponse(budget)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *budgetService) List(ctx context.Context) ([]dto.BudgetResponse, error) {
	budgets, err := s.repo.Budget.List(ctx)
	if err != nil {
		s.logger.Error("查询预算列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.BudgetResponse, 0, len(budgets))
	for i := range budgets {
		result = append(result, toBudgetResponse(&budgets[i]))
	}
	return result, nil
}

// getBudget 按 ID 查询预算并翻译未找到错误
func (s *budgetService) getBudget(ctx context.Context, id string) (*model.Budget, error) {
	if !model.IsObjectID(id) {
		return nil, apperrors.ErrInvalidID
	}
	budget, err := s.repo.Budget.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		s.logger.Error("查询预算失败", zap.String("budget_id", id), zap.Error(err))
		return nil, err
	}
	return budget, nil
}

// ────────────────────── Update ──────────────────────

func (s *budgetService) Update(ctx context.Context, callerID, id string, req *dto.UpdateBudgetRequest) (*dto.BudgetResponse, error) {
	if (req.AllocatedAmount != nil && *req.AllocatedAmount < 0) || (req.SpentAmount != nil && *req.SpentAmount < 0) {
		return nil, ErrNegativeAmount
	}

	budget, err := s.getBudget(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]interface{}, 3)
	if req.AllocatedAmount != nil {
		budget.AllocatedAmount = *req.AllocatedAmount
		changes["allocatedAmount"] = budget.AllocatedAmount
	}
	if req.SpentAmount != nil {
		budget.SpentAmount = *req.SpentAmount
		changes["spentAmount"] = budget.SpentAmount
	}
	if req.Currency != nil {
		budget.Currency = strings.ToUpper(*req.Currency)
		changes["currency"] = budget.Currency
	}
	if len(changes) == 0 {
		return nil, ErrEmptyUpdate
	}

	if err := s.repo.Budget.Update(ctx, budget); err != nil {
		s.logger.Error("更新预算失败", zap.String("budget_id", id), zap.Error(err))
		return nil, err
	}

	// 与仓储写入的 updated_at 保持一致，避免再次查询
	budget.UpdatedAt = time.Now().UTC()

	s.audit.Record(ctx, model.ActionUpdate, callerID, model.EntityBudget, id, changes)

	resp := toBudgetResponse(budget)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *budgetService) Delete(ctx context.Context, callerID, id string) error {
	budget, err := s.getBudget(ctx, id)
	if err != nil {
		return err
	}

	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Budget.Delete(ctx, id); err != nil {
			return err
		}
		return txRepo.Program.UpdateBudgetID(ctx, budget.ProgramID, nil)
	})
	if err != nil {
		s.logger.Error("删除预算失败", zap.String("budget_id", id), zap.Error(err))
		return err
	}

	s.audit.Record(ctx, model.ActionDelete, callerID, model.EntityBudget, id, map[string]interface{}{
		"programId": budget.ProgramID,
	})
	return nil
}
