package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/abbas-abdulwahab-shr/Management-Information-System/config"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/api/handler"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/api/middleware"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/dto"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/internal/model"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/jwt"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/metrics"
	"github.com/abbas-abdulwahab-shr/Management-Information-System/pkg/redis"
)

// Pinger 健康检查依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// 角色组合
var (
	adminOnly  = []string{model.RoleSuperAdmin}
	headOrAdm  = []string{model.RoleSuperAdmin, model.RoleDepartmentHead}
	programOps = []string{model.RoleSuperAdmin, model.RoleDepartmentHead, model.RoleOfficer}
	exporters  = []string{model.RoleSuperAdmin, model.RoleDepartmentHead, model.RoleAnalyst}
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	db Pinger,
	logger *zap.Logger,
) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return nil, err
		}
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			logger.Warn("健康检查失败", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authLimit := middleware.RateLimit(rdb, cfg.RateLimit.AuthPerMinute, time.Minute, logger)
	authed := middleware.JWTAuth(jwtMgr)

	api := r.Group("/api")
	{
		// 用户模块
		user := api.Group("/user")
		{
			user.POST("/register", authLimit, h.Auth.Register)
			user.POST("/login", authLimit, h.Auth.Login)

			me := user.Group("", authed)
			me.GET("/profile", h.User.GetProfile)
			me.PUT("/profile", h.User.UpdateProfile)
			me.DELETE("/profile", middleware.RoleAuth(headOrAdm...), h.User.DeleteProfile)

			users := me.Group("/users", middleware.RoleAuth(adminOnly...))
			users.GET("", h.User.List)
			users.PUT("/:id/role", h.User.AssignRole)
			users.PUT("/:id/department", h.User.AssignDepartment)
			users.DELETE("/:id", h.User.Delete)
		}

		// 部门模块
		department := api.Group("/department", authed)
		{
			department.POST("/create", middleware.RoleAuth(adminOnly...), h.Department.Create)
			department.POST("/assign-head", middleware.RoleAuth(adminOnly...), h.Department.AssignHead)
			department.GET("", h.Department.List)
			department.GET("/:id", h.Department.GetByID)
			department.DELETE("/:id", middleware.RoleAuth(adminOnly...), h.Department.Delete)
		}

		// 项目模块
		program := api.Group("/program", authed)
		{
			program.POST("", middleware.RoleAuth(headOrAdm...), h.Program.Create)
			program.POST("/create", middleware.RoleAuth(headOrAdm...), h.Program.Create)
			program.PATCH("/:id/status", middleware.RoleAuth(programOps...), h.Program.UpdateStatus)
			program.GET("", h.Program.List)
			program.GET("/:id", h.Program.GetByID)
		}

		// 预算模块
		budget := api.Group("/budget", authed)
		{
			budget.POST("", middleware.RoleAuth(headOrAdm...), h.Budget.Create)
			budget.GET("", h.Budget.List)
			budget.PATCH("/:id", middleware.RoleAuth(headOrAdm...), h.Budget.Update)
			budget.DELETE("/:id", middleware.RoleAuth(adminOnly...), h.Budget.Delete)
		}

		// 报表模块
		report := api.Group("/report", authed)
		{
			report.GET("/summary", h.Report.Summary)
			report.GET("/projects-per-department", h.Report.ProjectsPerDepartment)
			report.GET("/active-users", h.Report.ActiveUsers)
			report.GET("/export", middleware.RoleAuth(exporters...), h.Report.Export)
		}

		// 审计日志
		api.GET("/auditlog", authed, h.Audit.List)

		// ERP 同步
		erp := api.Group("/erp", authed, middleware.RoleAuth(adminOnly...))
		{
			erp.POST("/sync-projects", h.ERP.SyncProjects)
			erp.POST("/sync", h.ERP.SyncProjects)
		}

		// 实时看板：支持 ?token= 认证
		dashboard := api.Group("/dashboard", middleware.JWTAuthQuery(jwtMgr))
		{
			dashboard.GET("/stream", h.Dashboard.Stream)
			dashboard.GET("/ws", h.Dashboard.WebSocket)
		}
	}

	return r, nil
}
