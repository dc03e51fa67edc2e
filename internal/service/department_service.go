package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
	apperrors "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/errors"
)

// ── 部门模块业务错误 ──

var (
	ErrDepartmentNotFound   = apperrors.New(apperrors.KindNotFound, 13001, "部门不存在")
	ErrDepartmentNameExists = apperrors.New(apperrors.KindConflict, 13002, "部门名称已存在")
	ErrHeadNotFound         = apperrors.New(apperrors.KindNotFound, 13003, "负责人不存在")
)

// DepartmentService 部门业务接口
type DepartmentService interface {
	Create(ctx context.Context, callerID string, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error)
	AssignHead(ctx context.Context, callerID string, req *dto.AssignHeadRequest) (*dto.DepartmentResponse, error)
	List(ctx context.Context) ([]dto.DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error)
	Delete(ctx context.Context, callerID, id string) error
}

type departmentService struct {
	repo     *repository.Repository
	audit    AuditService
	notifier ChangeNotifier
	logger   *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(
	repo *repository.Repository,
	audit AuditService,
	notifier ChangeNotifier,
	logger *zap.Logger,
) DepartmentService {
	return &departmentService{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
	}
}

// getHead 查询负责人候选用户
func (s *departmentService) getHead(ctx context.Context, headID string) (*model.User, error) {
	if !model.IsObjectID(headID) {
		return nil, apperrors.ErrInvalidID
	}
	user, err := s.repo.User.GetByID(ctx, headID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHeadNotFound
		}
		s.logger.Error("查询负责人失败", zap.String("head_id", headID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// promoteHead 将负责人提升为 DEPARTMENT_HEAD；SUPER_ADMIN 保持原角色
func promoteHead(ctx context.Context, repo *repository.Repository, user *model.User) error {
	if user.Role == model.RoleSuperAdmin || user.Role == model.RoleDepartmentHead {
		return nil
	}
	if err := repo.User.UpdateRole(ctx, user.ID, model.RoleDepartmentHead); err != nil {
		return err
	}
	user.Role = model.RoleDepartmentHead
	return nil
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, callerID string, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ErrInvalidParams
	}

	// 1. 名称唯一性
	if _, err := s.repo.Department.GetByName(ctx, name); err == nil {
		return nil, ErrDepartmentNameExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}

	// 2. 负责人存在性
	var head *model.User
	if req.HeadID != nil && *req.HeadID != "" {
		user, err := s.getHead(ctx, *req.HeadID)
		if err != nil {
			return nil, err
		}
		head = user
	}

	dept := &model.Department{Name: name}
	if head != nil {
		dept.HeadID = &head.ID
	}

	// 3. 创建部门与提升负责人在同一事务内
	err := runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Department.Create(ctx, dept); err != nil {
			return err
		}
		if head != nil {
			return promoteHead(ctx, txRepo, head)
		}
		return nil
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDepartmentNameExists
		}
		s.logger.Error("创建部门失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, model.ActionCreate, callerID, model.EntityDepartment, dept.ID, map[string]interface{}{
		"name": name,
		"head": dept.HeadID,
	})
	s.notifier.NotifyChange()

	dept.Head = head
	resp := toDepartmentResponse(dept)
	return &resp, nil
}

// ────────────────────── AssignHead ──────────────────────

func (s *departmentService) AssignHead(ctx context.Context, callerID string, req *dto.AssignHeadRequest) (*dto.DepartmentResponse, error) {
	if !model.IsObjectID(req.DepartmentID) {
		return nil, apperrors.ErrInvalidID
	}
	dept, err := s.repo.Department.GetByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.Error(err))
		return nil, err
	}

	head, err := s.getHead(ctx, req.HeadID)
	if err != nil {
		return nil, err
	}

	// 原负责人保留其角色
	previous := dept.HeadID
	err = runInTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.Department.UpdateHead(ctx, dept.ID, &head.ID); err != nil {
			return err
		}
		return promoteHead(ctx, txRepo, head)
	})
	if err != nil {
		s.logger.Error("指定部门负责人失败",
			zap.String("department_id", dept.ID),
			zap.String("head_id", head.ID),
			zap.Error(err),
		)
		return nil, err
	}

	s.audit.Record(ctx, model.ActionUpdate, callerID, model.EntityDepartment, dept.ID, map[string]interface{}{
		"head":         head.ID,
		"previousHead": previous,
	})
	s.notifier.NotifyChange()

	return s.GetByID(ctx, dept.ID)
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.List(ctx)
	if err != nil {
		s.logger.Error("查询部门列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, toDepartmentResponse(&depts[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *departmentService) GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error) {
	if !model.IsObjectID(id) {
		return nil, apperrors.ErrInvalidID
	}
	dept, err := s.repo.Department.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("department_id", id), zap.Error(err))
		return nil, err
	}
	resp := toDepartmentResponse(dept)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 硬删除部门；项目保留原 department_id
func (s *departmentService) Delete(ctx context.Context, callerID, id string) error {
	if !model.IsObjectID(id) {
		return apperrors.ErrInvalidID
	}
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		s.logger.Error("查询部门失败", zap.String("department_id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Department.Delete(ctx, id); err != nil {
		s.logger.Error("删除部门失败", zap.String("department_id", id), zap.Error(err))
		return err
	}

	s.audit.Record(ctx, model.ActionDelete, callerID, model.EntityDepartment, id, map[string]interface{}{
		"name": dept.Name,
	})
	s.notifier.NotifyChange()
	return nil
}
