package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9000\n")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 5, cfg.Catalog.CategoryMaxDepth)
	assert.Equal(t, 20, cfg.Catalog.DefaultPageSize)
	assert.Equal(t, 100, cfg.Catalog.MaxPageSize)
	assert.Equal(t, 5*time.Minute, cfg.Cache.BookDetailTTL)
	assert.Equal(t, "readify.events", cfg.MQ.Exchange)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: mysql\n  password: from-file\n")
	t.Setenv("READIFY_DATABASE_PASSWORD", "from-env")
	t.Setenv("READIFY_CATALOG_CATEGORY_MAX_DEPTH", "3")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 3, cfg.Catalog.CategoryMaxDepth)
}

func TestLoadFrom_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"非法端口", "server:\n  port: 70000\n"},
		{"未知驱动", "database:\n  driver: oracle\n"},
		{"深度为0", "catalog:\n  category_max_depth: 0\n"},
		{"分页上限小于默认值", "catalog:\n  default_page_size: 50\n  max_page_size: 10\n"},
		{"生产环境默认密钥", "server:\n  mode: release\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_ConnString(t *testing.T) {
	mysql := DatabaseConfig{
		Driver: DriverMySQL, User: "root", Password: "pw", Host: "db", Port: 3306,
		DBName: "readify", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai",
	}
	assert.Equal(t,
		"root:pw@tcp(db:3306)/readify?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai",
		mysql.ConnString())

	pg := DatabaseConfig{Driver: DriverPostgres, User: "u", Password: "p", Host: "h", Port: 5432, DBName: "d"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", pg.ConnString())

	sqlite := DatabaseConfig{Driver: DriverSQLite, DBName: "readify.db"}
	assert.Equal(t, "readify.db", sqlite.ConnString())

	raw := DatabaseConfig{Driver: DriverPostgres, DSN: "postgres://x"}
	assert.Equal(t, "postgres://x", raw.ConnString())
}
