// Package rdbms 关系型数据库持久化实现(MySQL/PostgreSQL/SQLite)
package rdbms

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/readify/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明:
// 1. 按database.driver选择GORM驱动,仓储代码与具体数据库无关
// 2. 注册QueryCounter插件,每次数据库往返计入Prometheus
// 3. 开发环境打印SQL,其余环境只记录慢查询和错误
// 4. database.auto_migrate为true时自动迁移表结构
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := openDialector(cfg.Database)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log, logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	if err := db.Use(NewQueryCounter()); err != nil {
		return nil, fmt.Errorf("注册查询计数插件失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		// SQLite单连接:内存库在最后一个连接关闭时被销毁,写入也不支持并发
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		if cfg.Database.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		}
		if cfg.Database.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		}
		if cfg.Database.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
		}
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// 注意:AutoMigrate只会创建表、添加字段,不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(allModels()...)
}

func openDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	dsn := cfg.ConnString()
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// gormWriter 将GORM日志输出到zap
type gormWriter struct {
	log *zap.SugaredLogger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Infof(format, args...)
}

func newGormLogger(log *zap.Logger, level logger.LogLevel) logger.Interface {
	return logger.New(gormWriter{log: log.Named("gorm").Sugar()}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
