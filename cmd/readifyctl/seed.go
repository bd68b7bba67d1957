package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/readify/internal/application/port"
	"github.com/xiebiao/readify/internal/infrastructure/config"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/rdbms"
	"github.com/xiebiao/readify/internal/infrastructure/persistence/redis"
)

type seedOptions struct {
	file       string
	bcryptCost int
}

func newSeedCmd(opts *globalOptions) *cobra.Command {
	so := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "从YAML导入分类、出版社、作者、用户、图书与评论",
		Long: `整个文件在一个事务中导入,任一条失败全部回滚。
导入成功后清除Redis中的分类树缓存(redis.enabled为true时)。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			res, err := runSeed(cmd.Context(), cfg, log, so)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "导入完成: %d个分类, %d本图书, %d个用户, %d条评论\n",
				len(res.Categories), len(res.Books), len(res.Users), len(res.Reviews))
			return nil
		},
	}

	cmd.Flags().StringVarP(&so.file, "file", "f", "config/fixtures.yaml", "fixture文件路径")
	cmd.Flags().IntVar(&so.bcryptCost, "bcrypt-cost", 0, "密码哈希成本(0表示默认值)")
	return cmd
}

func runSeed(ctx context.Context, cfg *config.Config, log *zap.Logger, so *seedOptions) (*rdbms.SeedResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	fx, err := rdbms.LoadFixture(so.file)
	if err != nil {
		return nil, err
	}

	db, err := rdbms.NewDB(cfg, log)
	if err != nil {
		return nil, err
	}
	defer closeDB(db, log)

	res, err := rdbms.NewSeeder(db, so.bcryptCost).Seed(ctx, fx)
	if err != nil {
		return nil, fmt.Errorf("导入失败: %w", err)
	}

	invalidateCatalogCache(ctx, cfg, log, res)
	return res, nil
}

// invalidateCatalogCache 清除各深度的分类树缓存及本次导入图书的详情缓存,Redis不可用时只记录日志
func invalidateCatalogCache(ctx context.Context, cfg *config.Config, log *zap.Logger, res *rdbms.SeedResult) {
	if !cfg.Redis.Enabled {
		return
	}

	client, err := redis.NewClient(ctx, cfg, log)
	if err != nil {
		log.Warn("Redis不可用,目录缓存将在TTL到期后刷新", zap.Error(err))
		return
	}
	defer func() { _ = client.Close() }()

	keys := make([]string, 0, cfg.Catalog.CategoryMaxDepth+len(res.Books))
	for depth := 1; depth <= cfg.Catalog.CategoryMaxDepth; depth++ {
		keys = append(keys, port.CategoryTreeKey(depth))
	}
	for _, id := range res.Books {
		keys = append(keys, port.BookDetailKey(id))
	}
	if err := redis.NewCacheStore(client, log).Delete(ctx, keys...); err != nil {
		log.Warn("清除目录缓存失败", zap.Error(err))
		return
	}
	log.Info("目录缓存已清除", zap.Int("keys", len(keys)))
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("关闭数据库连接失败", zap.Error(err))
	}
}
