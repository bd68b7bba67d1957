package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/readify/internal/infrastructure/config"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/rdbms"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "按模型建表(只增不删)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return runMigrate(cfg, log)
		},
	}
}

func runMigrate(cfg *config.Config, log *zap.Logger) error {
	// 由本命令显式建表,避免NewDB重复执行
	cfg.Database.AutoMigrate = false
	db, err := rdbms.NewDB(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB(db, log)

	if err := rdbms.AutoMigrate(db); err != nil {
		return err
	}
	log.Info("建表完成", zap.String("driver", cfg.Database.Driver))
	return nil
}
