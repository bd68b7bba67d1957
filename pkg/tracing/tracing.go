// Package tracing 基于OpenTelemetry的分布式追踪
//
// 用例层在每个读写操作外包一层Span，便于在Jaeger中观察
// 一次图书详情请求的数据库往返分布：
//
//	GetBookDetail
//	  ├─ cache.Get catalog:book:detail:42
//	  ├─ store.FindDetail（6次往返）
//	  └─ presenter.Ancestors（每个祖先1次往返）
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName 本服务的instrumentation名称
const TracerName = "github.com/xiebiao/readify"

// Config 追踪配置
type Config struct {
	Enabled     bool
	ServiceName string
	Endpoint    string  // OTLP gRPC端点，如 localhost:4317
	Insecure    bool    // 禁用TLS（本地Jaeger）
	SampleRatio float64 // 采样率，<=0或>=1时全采样
}

// ShutdownFunc 关闭TracerProvider并刷新未导出的Span
type ShutdownFunc func(context.Context) error

// InitTracer 初始化全局TracerProvider
// 未启用时保留OTel默认的no-op Provider，StartSpan仍可安全调用
func InitTracer(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRatio > 0 && cfg.SampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}

// StartSpan 创建子Span（ctx中无Span时创建根Span）
func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, spanName, opts...)
}

// RecordError 记录错误并把Span状态置为Error，err为nil时不做任何事
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// ExtractTraceID 从ctx提取TraceID（用于日志关联）
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
