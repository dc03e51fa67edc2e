package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/config"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
	apperrors "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/errors"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/jwt"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = apperrors.New(apperrors.KindUnauthenticated, 11001, "邮箱或密码错误")
	ErrUserInactive       = apperrors.New(apperrors.KindForbidden, 11002, "账号已停用")
	ErrEmailExists        = apperrors.New(apperrors.KindConflict, 11003, "邮箱已被注册")
)

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	jwtMgr   *jwt.Manager
	audit    AuditService
	notifier ChangeNotifier
	logger   *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	audit AuditService,
	notifier ChangeNotifier,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		jwtMgr:   jwtMgr,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
	}
}

// normalizeEmail 邮箱统一去空白并转小写
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(req.Email)
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if email == "" || firstName == "" || lastName == "" {
		return nil, apperrors.ErrInvalidParams
	}

	// 1. 邮箱唯一性
	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 角色：默认 OFFICER，仅在配置允许时接受自选角色
	role := model.RoleOfficer
	if s.cfg.Auth.AllowSelfRole && req.Role != "" {
		if !model.IsValidRole(req.Role) {
			return nil, apperrors.ErrInvalidParams
		}
		role = req.Role
	}

	// 3. 部门存在性
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

	// 4. 密码哈希
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	user := &model.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		DepartmentID: deptID,
		IsActive:     true,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		// 并发注册同一邮箱时由唯一索引兜底
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.audit.Record(ctx, model.ActionCreate, user.ID, model.EntityUser, user.ID, map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})
	s.notifier.NotifyChange()

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 密码正确后再判断状态，避免暴露账号是否存在
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. 生成 Token
	token, err := s.jwtMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		s.logger.Error("生成 Token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(s.jwtMgr.TTL().Seconds()),
		User:      toUserResponse(user),
	}, nil
}
