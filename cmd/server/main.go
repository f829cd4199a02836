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

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/internal/api/handler"
	"github.com/Zerds-Global/Alumini-interaction/internal/api/router"
	"github.com/Zerds-Global/Alumini-interaction/internal/authz"
	"github.com/Zerds-Global/Alumini-interaction/internal/dto"
	"github.com/Zerds-Global/Alumini-interaction/internal/jobs"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	"github.com/Zerds-Global/Alumini-interaction/internal/service"
	"github.com/Zerds-Global/Alumini-interaction/pkg/database"
	"github.com/Zerds-Global/Alumini-interaction/pkg/jwt"
	applogger "github.com/Zerds-Global/Alumini-interaction/pkg/logger"
	"github.com/Zerds-Global/Alumini-interaction/pkg/redis"
	"github.com/Zerds-Global/Alumini-interaction/pkg/storage"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("ALUMNI_CONFIG"))
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
		zap.String("mode", cfg.Server.Mode),
		zap.String("log_level", cfg.Log.Level),
	)
	if cfg.Auth.UsingDevFallback {
		logger.Warn("未设置 auth.jwt_secret，正在使用开发环境默认密钥")
	}

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

	// 4. 连接 Redis（可选：失败时降级运行）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		if errors.Is(err, redis.ErrDisabled) {
			logger.Info("Redis 已禁用，登出吊销与分布式限流不可用")
		} else {
			logger.Warn("Redis 连接失败，降级运行", zap.Error(err))
		}
		rdb = nil
	}

	// 5. 基础组件
	jwtMgr := jwt.NewManager(&cfg.Auth)
	enforcer, err := authz.NewEnforcer()
	if err != nil {
		logger.Fatal("加载权限策略失败", zap.Error(err))
	}
	store, err := storage.NewLocalStore(cfg.Server.UploadDir, cfg.Server.MaxBodyBytes)
	if err != nil {
		logger.Fatal("初始化上传目录失败", zap.Error(err))
	}
	dto.RegisterValidators()

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	var revoker service.TokenRevoker
	if rdb != nil {
		revoker = rdb
	}
	svc := service.NewService(cfg, repo, jwtMgr, revoker, store, logger)
	h := handler.NewHandler(svc)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 7. 初始超级管理员
	if _, err := svc.Seed.EnsureSuperAdmin(ctx); err != nil {
		logger.Fatal("初始化超级管理员失败", zap.Error(err))
	}

	// 8. 后台任务
	if cfg.Jobs.GraduationEnabled {
		var locker jobs.Locker
		if rdb != nil {
			locker = rdb
		}
		jobs.NewGraduationJob(&cfg.Jobs, svc.Graduation, locker, logger).Start(ctx)
	}

	// 9. 初始化路由
	deps := router.Deps{
		Handler:  h,
		JWT:      jwtMgr,
		Identity: svc.Auth,
		Enforcer: enforcer,
	}
	if rdb != nil {
		deps.Denylist = rdb
		deps.Limiter = rdb
	}
	engine := router.Setup(cfg, deps, logger)

	// 10. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 11. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	_ = sqlDB.Close()
	if rdb != nil {
		_ = rdb.Close()
	}

	logger.Info("服务器已关闭")
}
