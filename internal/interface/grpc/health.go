// Package grpc 提供gRPC健康检查服务,供负载均衡器与k8s探针使用
package grpc

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// CatalogService 健康检查中的服务名,空字符串表示整个进程
const CatalogService = "readify.catalog.v1.Catalog"

// Checker 依赖探测函数,返回nil表示可用
type Checker func(ctx context.Context) error

// HealthServer 按依赖探测结果更新健康状态
// 必选依赖(数据库)失败时NOT_SERVING;可降级依赖(Redis、MQ)失败只记录日志
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	required map[string]Checker
	optional map[string]Checker
	interval time.Duration
	log      *zap.Logger

	stopOnce sync.Once
	stop     chan struct{}
}

// NewHealthServer 创建健康检查服务
func NewHealthServer(required, optional map[string]Checker, interval time.Duration, log *zap.Logger) *HealthServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	hs := health.NewServer()
	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	// 注册反射服务(用于grpcurl调试)
	reflection.Register(server)

	return &HealthServer{
		server:   server,
		health:   hs,
		required: required,
		optional: optional,
		interval: interval,
		log:      log,
		stop:     make(chan struct{}),
	}
}

// Health 底层health.Server(测试中直接调用Check)
func (s *HealthServer) Health() healthpb.HealthServer {
	return s.health
}

// Refresh 执行一轮探测并更新状态
func (s *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING

	for name, check := range s.required {
		if err := check(ctx); err != nil {
			s.log.Error("必选依赖不可用", zap.String("dependency", name), zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	for name, check := range s.optional {
		if err := check(ctx); err != nil {
			s.log.Warn("可降级依赖不可用", zap.String("dependency", name), zap.Error(err))
		}
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(CatalogService, status)
	return status
}

// Serve 监听端口并阻塞,直到Stop被调用
func (s *HealthServer) Serve(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("监听健康检查端口失败: %w", err)
	}
	return s.ServeListener(lis)
}

// ServeListener 在给定listener上提供服务,并按interval周期性探测
func (s *HealthServer) ServeListener(lis net.Listener) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Refresh(ctx)
	go s.loop(ctx)

	s.log.Info("gRPC健康检查服务启动", zap.String("addr", lis.Addr().String()))
	return s.server.Serve(lis)
}

func (s *HealthServer) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, s.interval)
			s.Refresh(checkCtx)
			cancel()
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop 标记NOT_SERVING后优雅关闭
func (s *HealthServer) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.health.Shutdown()
		s.server.GracefulStop()
	})
}
