// Readify 图书目录服务
//
// @title           Readify Catalog API
// @version         1.0
// @description     图书目录只读接口与评论写入接口
// @host            localhost:8080
// @BasePath        /
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/xiebiao/readify/docs"
	"github.com/xiebiao/readify/internal/infrastructure/config"
	"github.com/xiebiao/readify/pkg/logger"
	"github.com/xiebiao/readify/pkg/tracing"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("加载配置失败", zap.Error(err))
	}

	// 2. 日志
	log, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		zap.L().Fatal("初始化日志失败", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database", cfg.Database.Driver),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("mq", cfg.MQ.Enabled),
	)

	ctx := context.Background()

	// 3. 链路追踪
	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("初始化链路追踪失败", zap.Error(err))
	}

	// 4. 依赖注入
	app, cleanup, err := InitializeApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("初始化应用失败", zap.Error(err))
	}

	// 5. 启动HTTP服务
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.Engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Info("HTTP服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP服务异常退出", zap.Error(err))
		}
	}()

	if app.Health != nil {
		go func() {
			if err := app.Health.Serve(cfg.GRPC.HealthPort); err != nil {
				log.Error("gRPC健康检查服务异常退出", zap.Error(err))
			}
		}()
	}

	// 6. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("收到关闭信号,开始优雅关闭")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if app.Health != nil {
		app.Health.Stop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP服务关闭超时", zap.Error(err))
	}
	cleanup()
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Warn("关闭链路追踪失败", zap.Error(err))
	}

	log.Info("服务已安全关闭")
}
