package main

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/readify/internal/application/port"
	"github.com/xiebiao/readify/internal/infrastructure/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			DSN:         filepath.Join(t.TempDir(), "readify.db"),
			AutoMigrate: true,
		},
		Catalog: config.CatalogConfig{CategoryMaxDepth: 3},
	}
}

func TestRunSeed_Fixtures(t *testing.T) {
	cfg := sqliteConfig(t)

	mr := miniredis.RunT(t)
	redisPort, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg.Redis = config.RedisConfig{Enabled: true, Host: mr.Host(), Port: redisPort, DialTimeout: time.Second}
	require.NoError(t, mr.Set(portKey(2), "[]"))
	// 空库自增ID从1开始,预置一批详情缓存
	for id := uint(1); id <= 20; id++ {
		require.NoError(t, mr.Set(port.BookDetailKey(id), "{}"))
	}

	res, err := runSeed(context.Background(), cfg, zap.NewNop(), &seedOptions{file: "../../config/fixtures.yaml", bcryptCost: 4})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Categories)
	assert.NotEmpty(t, res.Books)
	assert.NotEmpty(t, res.Users)
	assert.False(t, mr.Exists(portKey(2)), "导入后应清除分类树缓存")
	for key, id := range res.Books {
		assert.False(t, mr.Exists(port.BookDetailKey(id)), "导入后应清除图书详情缓存: %s", key)
	}
	assert.True(t, mr.Exists(port.BookDetailKey(20)), "未导入的图书不受影响")
}

func TestRunSeed_MissingFile(t *testing.T) {
	_, err := runSeed(context.Background(), sqliteConfig(t), zap.NewNop(), &seedOptions{file: "missing.yaml"})
	assert.Error(t, err)
}

func TestRunSeed_RedisDown(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Redis = config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1, DialTimeout: 100 * time.Millisecond}

	_, err := runSeed(context.Background(), cfg, zap.NewNop(), &seedOptions{file: "../../config/fixtures.yaml", bcryptCost: 4})
	assert.NoError(t, err, "Redis不可用不影响导入")
}

func TestRunMigrate(t *testing.T) {
	assert.NoError(t, runMigrate(sqliteConfig(t), zap.NewNop()))
}

func portKey(depth int) string {
	return port.CategoryTreeKey(depth)
}
