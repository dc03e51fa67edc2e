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

// ── 项目模块业务错误 ──

var (
	ErrProgramNotFound      = apperrors.New(apperrors.KindNotFound, 14001, "项目不存在")
	ErrOfficerNotFound      = apperrors.New(apperrors.KindNotFound, 14002, "项目负责人不存在")
	ErrInvalidProgramStatus = apperrors.New(apperrors.KindValidation, 14003, "无效的项目状态")
	ErrInvalidProgramDate   = apperrors.New(apperrors.KindValidation, 14004, "日期格式无效")
	ErrProgramDateRange     = apperrors.New(apperrors.KindValidation, 14005, "结束日期不能早于开始日期")
)

// ProgramService 项目业务接口
type ProgramService interface {
	Create(ctx context.Context, callerID string, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error)
	UpdateStatus(ctx context.Context, callerID, id string, req *dto.UpdateProgramStatusRequest) (*dto.ProgramResponse, error)
	List(ctx context.Context, req *dto.ProgramListRequest) ([]dto.ProgramResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProgramResponse, error)
}

type programService struct {
	repo     *repository.Repository
	audit    AuditService
	notifier ChangeNotifier
	logger   *zap.Logger
}

// NewProgramService 创建 ProgramService 实例
func NewProgramService(
	repo *repository.Repository,
	audit AuditService,
	notifier ChangeNotifier,
	logger *zap.Logger,
) ProgramService {
	return &programService{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
	}
}

// ────────────────────── Create ──────────────────────

// Create 创建项目并自动生成金额为 0 的预算，二者双向关联且在同一事务内写入
func (s *programService) Create(ctx context.Context, callerID string, req *dto.CreateProgramRequest) (*dto.ProgramResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.ErrInvalidParams
	}
	if !model.IsObjectID(req.OfficerID) || !model.IsObjectID(req.DepartmentID) {
		return nil, apperrors.ErrInvalidID
	}

	// 1. 日期
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return nil, ErrInvalidProgramDate
	}
	var end *time.Time
	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		t, err := dto.ParseDate(*req.EndDate)
		if err != nil {
			return nil, ErrInvalidProgramDate
		}
		if t.Before(start) {
			return nil, ErrProgramDateRange
		}
		end = &t
	}

	// 2. 负责人与部门存在性
	officer, err := s.repo.User.GetByID(ctx, req.OfficerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfficerNotFound
		}
		s.logger.Error("查询项目负责人失败", zap.Error(err))
		return nil, err
	}
	dept, err := s.repo.Department.GetByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}

	// 3. 预先生成两侧主键，以便在同一事务内互相引用
	programID := model.NewID()
	budgetID := model.NewID()

	program := &model.Program{
		ObjectIDModel:     model.ObjectIDModel{ID: programID},
		Title:             title,
		Description:       req.Description,
		Status:            model.ProgramStatusPlanned,
		OfficerID:         officer.ID,
		DepartmentID:      dept.ID,
		StartDate:         start,
		EndDate:           end,
		PrimarySponsor:    req.PrimarySponsor,
		SupportingSponsor: req.SupportingSponsor,
		Impact:            req.Impact,
		Beneficiaries:     req.Beneficiaries,
		Location:          req.Location,
		BudgetID:          &budgetID,
		CreatedBy:         callerID,
	}
	budget := &model.Budget{
		ObjectIDModel:   model.ObjectIDModel{ID: budgetID},
		ProgramID:       programID,
		AllocatedAmount: 0,
		SpentAmount:     0,
		Currency:        model.DefaultCurrency,
	}

	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Program.Create(ctx, program); err != nil {
			return err
		}
		return txRepo.Budget.Create(ctx, budget)
	})
	if err != nil {
		s.logger.Error("创建项目失败", zap.String("title", title), zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, model.ActionCreate, callerID, model.EntityProgram, programID, map[string]interface{}{
		"title":        title,
		"officerId":    officer.ID,
		"departmentId": dept.ID,
	})
	s.audit.Record(ctx, model.ActionCreate, callerID, model.EntityBudget, budgetID, map[string]interface{}{
		"programId":       programID,
		"allocatedAmount": 0,
		"auto":            true,
	})
	s.notifier.NotifyChange()

	program.Officer = officer
	program.Department = dept
	program.Budget = budget
	resp := toProgramResponse(program)
	return &resp, nil
}

// ────────────────────── UpdateStatus ──────────────────────

// UpdateStatus 状态必须在封闭集合内，不限制迁移方向
func (s *programService) UpdateStatus(ctx context.Context, callerID, id string, req *dto.UpdateProgramStatusRequest) (*dto.ProgramResponse, error) {
	if !model.IsObjectID(id) {
		return nil, apperrors.ErrInvalidID
	}
	if !model.IsValidProgramStatus(req.Status) {
		return nil, ErrInvalidProgramStatus
	}

	program, err := s.repo.Program.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询项目失败", zap.String("program_id", id), zap.Error(err))
		return nil, err
	}

	previous := program.Status
	if err := s.repo.Program.UpdateStatus(ctx, id, req.Status); err != nil {
		s.logger.Error("更新项目状态失败", zap.String("program_id", id), zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, model.ActionUpdate, callerID, model.EntityProgram, id, map[string]interface{}{
		"status":         req.Status,
		"previousStatus": previous,
	})
	s.notifier.NotifyChange()

	return s.GetByID(ctx, id)
}

// ────────────────────── List ──────────────────────

func (s *programService) List(ctx context.Context, req *dto.ProgramListRequest) ([]dto.ProgramResponse, error) {
	if req.Status != "" && !model.IsValidProgramStatus(req.Status) {
		return nil, ErrInvalidProgramStatus
	}

	programs, err := s.repo.Program.List(ctx, repository.ProgramFilter{
		Status:       req.Status,
		DepartmentID: req.DepartmentID,
		OfficerID:    req.OfficerID,
	})
	if err != nil {
		s.logger.Error("查询项目列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ProgramResponse, 0, len(programs))
	for i := range programs {
		result = append(result, toProgramResponse(&programs[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *programService) GetByID(ctx context.Context, id string) (*dto.ProgramResponse, error) {
	if !model.IsObjectID(id) {
		return nil, apperrors.ErrInvalidID
	}
	program, err := s.repo.Program.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询项目失败", zap.String("program_id", id), zap.Error(err))
		return nil, err
	}
	resp := toProgramResponse(program)
	return &resp, nil
}
