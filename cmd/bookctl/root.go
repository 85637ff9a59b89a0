package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/bookapp/internal/app"
	"github.com/xiebiao/bookapp/internal/infrastructure/config"
	"github.com/xiebiao/bookapp/internal/infrastructure/logger"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/gormrepo"
)

// runtime 命令执行所需的依赖
type runtime struct {
	cfg       *config.Config
	log       *zap.Logger
	container *app.Container
	close     func()
}

// opener 按配置文件创建依赖，测试中替换为内存数据库
type opener func(ctx context.Context, configFile string) (*runtime, error)

func defaultOpener(_ context.Context, configFile string) (*runtime, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	db, err := gormrepo.NewDB(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:       cfg,
		log:       log,
		container: app.NewContainer(app.Infra{Config: cfg, DB: db, Logger: log}),
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			_ = log.Sync()
		},
	}, nil
}

func newRootCmd(open opener) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "bookctl",
		Short: "bookapp运维命令",
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径（默认./config/config.yaml）")

	// 子命令在RunE里才打开数据库，--help不需要连接
	withRuntime := func(fn func(cmd *cobra.Command, args []string, rt *runtime) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			rt, err := open(cmd.Context(), configFile)
			if err != nil {
				return fmt.Errorf("初始化失败: %w", err)
			}
			defer rt.close()
			return fn(cmd, args, rt)
		}
	}

	root.AddCommand(
		newDiscountCmd(withRuntime),
		newWorkerCmd(withRuntime),
		newUsersCmd(withRuntime),
	)
	return root
}

type runE func(fn func(cmd *cobra.Command, args []string, rt *runtime) error) func(*cobra.Command, []string) error
