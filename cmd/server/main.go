package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/youvshr/internal/config"
	"github.com/youvshr/internal/db"
	"github.com/youvshr/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd 组装命令树，不带子命令运行时等同于 serve
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "youvshr",
		Short:         "You VS HR community site",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSeedCmd(),
		newCreateAdminCmd(),
		newCommentsCmd(),
		newModeratorsCmd(),
	)
	return root
}

// bootstrap 加载配置、初始化日志并打开数据库，所有子命令共用
func bootstrap() (config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.AppConfig{}, err
	}

	logger.Init(cfg.GinMode, logger.Options{
		Dir:        cfg.Log.Dir,
		Filename:   cfg.Log.Filename,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})

	if cfg.GinMode == gin.ReleaseMode || cfg.GinMode == gin.DebugMode || cfg.GinMode == gin.TestMode {
		gin.SetMode(cfg.GinMode)
	}

	// 初始化数据库
	if err := db.Init(cfg.Database.Driver, cfg.Database.DSN); err != nil {
		return config.AppConfig{}, fmt.Errorf("failed to initialize database: %w", err)
	}
	return cfg, nil
}
