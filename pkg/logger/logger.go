// Package logger 基于zap构建结构化日志
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
// 与config.LogConfig字段一一对应，pkg层不依赖internal
type Config struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
}

// New 按配置创建zap.Logger，并替换zap全局Logger
// 设计说明：
// 1. json格式用于生产环境，便于日志系统采集
// 2. console格式用于开发环境，带颜色的级别显示
// 3. zap.ReplaceGlobals后，response等包可直接使用zap.L()
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(defaultString(cfg.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别: %w", err)
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.DisableCaller = !cfg.EnableCaller

	output := defaultString(cfg.Output, "stdout")
	zc.OutputPaths = []string{output}
	zc.ErrorOutputPaths = []string{"stderr"}

	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("创建日志失败: %w", err)
	}

	zap.ReplaceGlobals(log)
	return log, nil
}

// NewNop 返回不输出任何内容的Logger（测试使用）
func NewNop() *zap.Logger {
	return zap.NewNop()
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
