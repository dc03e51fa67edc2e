package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/config"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/api/handler"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/api/router"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dashboard"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/repository"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/service"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/database"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/jwt"
	applogger "github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/logger"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/metrics"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("MIS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	metrics.Init()

	// 3. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：失败时降级为单实例看板与本地限流）
	var rdb *redis.Client
	var broker dashboard.Broker
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，看板仅推送本实例", zap.Error(err))
			rdb = nil
		} else {
			broker = rdb
		}
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	hub := dashboard.NewHub(&cfg.Dashboard, broker, logger)
	svc := service.NewService(cfg, repo, jwtMgr, hub, logger)
	h := handler.NewHandler(cfg, svc, hub)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	hub.Start(ctx, svc.Report)

	// 7. 初始化路由
	engine, err := router.Setup(cfg, h, jwtMgr, rdb, repo, logger)
	if err != nil {
		logger.Fatal("初始化路由失败", zap.Error(err))
	}

	// 8. 启动 HTTP 服务器（优雅关闭）
	// 事件流为长连接，不设置 WriteTimeout
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	// 先关闭看板，事件流随之结束，Shutdown 不必等待长连接超时
	stop()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("关闭 Redis 连接失败", zap.Error(err))
		}
	}

	logger.Info("服务器已关闭")
}
