package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Zerds-Global/Alumini-interaction/config"
	"github.com/Zerds-Global/Alumini-interaction/internal/repository"
	"github.com/Zerds-Global/Alumini-interaction/internal/service"
	"github.com/Zerds-Global/Alumini-interaction/pkg/database"
	applogger "github.com/Zerds-Global/Alumini-interaction/pkg/logger"
)

// env 子命令共享的运行环境
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	sqlDB  *sql.DB
}

func (e *env) close() {
	if e.sqlDB != nil {
		_ = e.sqlDB.Close()
	}
	_ = e.logger.Sync()
}

// services 命令行不发令牌也不处理上传
func (e *env) services() *service.Service {
	return service.NewService(e.cfg, repository.NewRepository(e.db), nil, nil, nil, e.logger)
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:           "campusctl",
		Short:         "Operational commands for the alumni interaction backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config/config.yaml)")

	load := func() (*env, error) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		logger, err := applogger.NewLogger(&cfg.Log)
		if err != nil {
			return nil, fmt.Errorf("初始化日志失败: %w", err)
		}
		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return nil, fmt.Errorf("数据库连接失败: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
		}
		return &env{cfg: cfg, logger: logger, db: db, sqlDB: sqlDB}, nil
	}

	root.AddCommand(
		newMigrateCmd(load),
		newSeedCmd(load),
		newPromoteCmd(load),
	)
	return root
}
