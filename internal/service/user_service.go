package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/config"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
	apperrors "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/errors"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound       = apperrors.New(apperrors.KindNotFound, 12001, "用户不存在")
	ErrEmptyUpdate        = apperrors.New(apperrors.KindValidation, 12002, "未提供任何可更新字段")
	ErrUserSelfDelete     = apperrors.New(apperrors.KindValidation, 12003, "不能删除自己的账号，请使用个人资料注销")
	ErrUserSelfRoleChange = apperrors.New(apperrors.KindValidation, 12004, "不能修改自己的角色")
	ErrUserHasPrograms    = apperrors.New(apperrors.KindConflict, 12005, "该用户仍负责项目，无法删除")
	ErrInvalidRole        = apperrors.New(apperrors.KindValidation, 12006, "无效的角色")
)

// UserService 用户业务接口
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	DeleteProfile(ctx context.Context, userID string) error
	List(ctx context.Context) ([]dto.UserResponse, error)
	AssignRole(ctx context.Context, callerID, userID string, req *dto.AssignRoleRequest) (*dto.UserResponse, error)
	AssignDepartment(ctx context.Context, callerID, userID string, req *dto.AssignDepartmentRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, callerID, userID string) error
}

type userService struct {
	cfg      *config.AuthConfig
	repo     *repository.Repository
	audit    AuditService
	notifier ChangeNotifier
	logger   *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(
	cfg *config.AuthConfig,
	repo *repository.Repository,
	audit AuditService,
	notifier ChangeNotifier,
	logger *zap.Logger,
) UserService {
	return &userService{
		cfg:      cfg,
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
	}
}

// getUser 按 ID 查询用户并翻译未找到错误
func (s *userService) getUser(ctx context.Context, id string) (*model.User, error) {
	if !model.IsObjectID(id) {
		return nil, apperrors.ErrInvalidID
	}
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// ────────────────────── GetProfile ──────────────────────

func (s *userService) GetProfile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── UpdateProfile ──────────────────────

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := make([]string, 0, 3)
	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return nil, apperrors.ErrInvalidParams
		}
		user.FirstName = name
		updated = append(updated, "firstName")
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if name == "" {
			return nil, apperrors.ErrInvalidParams
		}
		user.LastName = name
		updated = append(updated, "lastName")
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.cfg.BcryptCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = string(hash)
		updated = append(updated, "password")
	}
	if len(updated) == 0 {
		return nil, ErrEmptyUpdate
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, model.ActionUpdate, userID, model.EntityUser, userID, map[string]interface{}{
		"updatedFields": updated,
	})
	s.notifier.NotifyChange()

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── DeleteProfile ──────────────────────

func (s *userService) DeleteProfile(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.deleteUser(ctx, user); err != nil {
		return err
	}

	s.audit.Record(ctx, model.ActionDelete, userID, model.EntityUser, userID, map[string]interface{}{
		"email": user.Email,
	})
	s.notifier.NotifyChange()
	return nil
}

// deleteUser 删除前确认用户不再担任任何项目负责人
func (s *userService) deleteUser(ctx context.Context, user *model.User) error {
	count, err := s.repo.Program.CountByOfficer(ctx, user.ID)
	if err != nil {
		s.logger.Error("统计负责项目失败", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrUserHasPrograms
	}

	if err := s.repo.User.Delete(ctx, user.ID); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrUserHasPrograms
		}
		s.logger.Error("删除用户失败", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}
	return toUserResponses(users), nil
}

// ────────────────────── AssignRole ──────────────────────

func (s *userService) AssignRole(ctx context.Context, callerID, userID string, req *dto.AssignRoleRequest) (*dto.UserResponse, error) {
	if !model.IsValidRole(req.Role) {
		return nil, ErrInvalidRole
	}
	if callerID == userID {
		return nil, ErrUserSelfRoleChange
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	previous := user.Role
	if err := s.repo.User.UpdateRole(ctx, userID, req.Role); err != nil {
		s.logger.Error("更新用户角色失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	user.Role = req.Role

	s.audit.Record(ctx, model.ActionUpdate, callerID, model.EntityUser, userID, map[string]interface{}{
		"role":         req.Role,
		"previousRole": previous,
	})
	s.notifier.NotifyChange()

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── AssignDepartment ──────────────────────

func (s *userService) AssignDepartment(ctx context.Context, callerID, userID string, req *dto.AssignDepartmentRequest) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 空值表示移出部门
	var deptID *string
	if req.DepartmentID != nil && *req.DepartmentID != "" {
		if !model.IsObjectID(*req.DepartmentID) {
			return nil, apperrors.ErrInvalidID
		}
		if _, err := s.repo.Department.GetByID(ctx, *req.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			s.logger.Error("查询部门失败", zap.Error(err))
			return nil, err
		}
		deptID = req.DepartmentID
	}

	if err := s.repo.User.UpdateDepartment(ctx, userID, deptID); err != nil {
		s.logger.Error("更新用户部门失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	previous := user.DepartmentID
	user.DepartmentID = deptID
	user.Department = nil

	s.audit.Record(ctx, model.ActionUpdate, callerID, model.EntityUser, userID, map[string]interface{}{
		"departmentId":         deptID,
		"previousDepartmentId": previous,
	})
	s.notifier.NotifyChange()

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, callerID, userID string) error {
	if callerID == userID {
		return ErrUserSelfDelete
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.deleteUser(ctx, user); err != nil {
		return err
	}

	s.audit.Record(ctx, model.ActionDelete, callerID, model.EntityUser, userID, map[string]interface{}{
		"email": user.Email,
	})
	s.notifier.NotifyChange()
	return nil
}
