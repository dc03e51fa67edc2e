package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/config"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/database"
	applogger "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/logger"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "misctl",
		Short:         "MIS 运维工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")

	root.AddCommand(newMigrateCmd(), newCreateAdminCmd())
	return root
}

// ────────────────────── migrate ──────────────────────

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "数据库迁移",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "应用全部未执行的迁移",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withSQLDB(func(db *sql.DB, logger *zap.Logger) error {
					return database.RunMigrations(db, logger)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "回滚最近一次迁移",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withSQLDB(func(db *sql.DB, _ *zap.Logger) error {
					if err := database.RollbackMigration(db); err != nil {
						return err
					}
					cmd.Println("已回滚一个版本")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "查看当前迁移版本",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withSQLDB(func(db *sql.DB, _ *zap.Logger) error {
					version, dirty, err := database.MigrationVersion(db)
					if err != nil {
						return err
					}
					cmd.Printf("version=%d dirty=%t\n", version, dirty)
					return nil
				})
			},
		},
	)
	return cmd
}

// ────────────────────── create-admin ──────────────────────

type adminOptions struct {
	firstName string
	lastName  string
	email     string
	password  string
}

func newCreateAdminCmd() *cobra.Command {
	opts := &adminOptions{}
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "创建 SUPER_ADMIN 账号",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return withDB(func(cfg *config.Config, db *gorm.DB, _ *zap.Logger) error {
				user, err := createAdmin(cmd.Context(), repository.NewRepository(db), opts, cfg.Auth.BcryptCost)
				if err != nil {
					return err
				}
				cmd.Printf("已创建管理员 %s (%s)\n", user.Email, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.firstName, "first-name", "System", "名")
	cmd.Flags().StringVar(&opts.lastName, "last-name", "Admin", "姓")
	cmd.Flags().StringVar(&opts.email, "email", "", "登录邮箱")
	cmd.Flags().StringVar(&opts.password, "password", "", "初始密码（至少 6 位）")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (o *adminOptions) validate() error {
	o.email = strings.ToLower(strings.TrimSpace(o.email))
	if !strings.Contains(o.email, "@") {
		return errors.New("email 格式无效")
	}
	if len(o.password) < 6 {
		return errors.New("password 至少 6 位")
	}
	return nil
}

func createAdmin(ctx context.Context, repo *repository.Repository, opts *adminOptions, cost int) (*model.User, error) {
	if _, err := repo.User.GetByEmail(ctx, opts.email); err == nil {
		return nil, fmt.Errorf("邮箱 %s 已存在", opts.email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.password), cost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &model.User{
		FirstName:    opts.firstName,
		LastName:     opts.lastName,
		Email:        opts.email,
		PasswordHash: string(hash),
		Role:         model.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := repo.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("创建管理员失败: %w", err)
	}
	return user, nil
}

// ────────────────────── 连接辅助 ──────────────────────

func withDB(fn func(cfg *config.Config, db *gorm.DB, logger *zap.Logger) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, "warn", logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return fn(cfg, db, logger)
}

func withSQLDB(fn func(db *sql.DB, logger *zap.Logger) error) error {
	return withDB(func(_ *config.Config, db *gorm.DB, logger *zap.Logger) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return fn(sqlDB, logger)
	})
}
