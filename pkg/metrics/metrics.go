// Package metrics 提供基于Prometheus的指标收集
//
// 指标分为四组：
//   - HTTP：请求总数、耗时、处理中的请求数
//   - 存储：每次数据库往返按操作类型计数（验证分类树、图书详情的往返次数为常数）
//   - 缓存：命中/未命中/错误，以及保护缓存的熔断器状态
//   - 业务：分类树截断次数、评论创建数、消息发布数
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	metrics.ObserveStoreQuery("query")
//	metrics.ObserveCache("book_detail", metrics.CacheHit)
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 缓存结果标签
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method、path（路由模板，如/api/v1/books/:id）、status
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 存储指标

	// StoreQueriesTotal 数据库往返次数（Counter）
	// 标签：operation（query/row/create/update/delete）
	StoreQueriesTotal *prometheus.CounterVec

	// 缓存指标

	// CacheRequestsTotal 缓存访问次数（Counter）
	// 标签：cache（category_tree/book_detail）、result（hit/miss/error）
	CacheRequestsTotal *prometheus.CounterVec

	// CircuitBreakerState 熔断器状态（Gauge）
	// 0=CLOSED, 1=OPEN, 2=HALF_OPEN
	CircuitBreakerState *prometheus.GaugeVec

	// 业务指标

	// CategoryTreeTruncationsTotal 分类树在深度上限处被截断的次数（Counter）
	CategoryTreeTruncationsTotal prometheus.Counter

	// ReviewsCreatedTotal 评论创建总数（Counter）
	// 标签：rating（1-5）
	ReviewsCreatedTotal *prometheus.CounterVec

	// MessagesPublishedTotal 消息发布总数（Counter）
	// 标签：exchange、routing_key、result（success/failure）
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标到默认Registry
// 多次调用只注册一次（promauto重复注册会panic）
func InitMetrics() {
	initOnce.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP请求耗时（秒）",
			// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	StoreQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_queries_total",
			Help: "数据库往返次数",
		},
		[]string{"operation"},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "缓存访问次数",
		},
		[]string{"cache", "result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	CategoryTreeTruncationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "category_tree_truncations_total",
			Help: "分类树在深度上限处被截断的次数",
		},
	)

	ReviewsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviews_created_total",
			Help: "评论创建总数",
		},
		[]string{"rating"},
	)

	MessagesPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key", "result"},
	)
}

// =========================================
// 业务侧辅助函数（内部保证已初始化）
// =========================================

// ObserveStoreQuery 记录一次数据库往返
func ObserveStoreQuery(operation string) {
	InitMetrics()
	StoreQueriesTotal.WithLabelValues(operation).Inc()
}

// ObserveCache 记录一次缓存访问
func ObserveCache(cache, result string) {
	InitMetrics()
	CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}

// SetCircuitBreakerState 记录熔断器状态
func SetCircuitBreakerState(name string, state int) {
	InitMetrics()
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// IncCategoryTruncation 记录一次分类树截断
func IncCategoryTruncation() {
	InitMetrics()
	CategoryTreeTruncationsTotal.Inc()
}

// IncReviewCreated 记录一次评论创建
func IncReviewCreated(rating string) {
	InitMetrics()
	ReviewsCreatedTotal.WithLabelValues(rating).Inc()
}

// IncMessagePublished 记录一次消息发布
func IncMessagePublished(exchange, routingKey, result string) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(exchange, routingKey, result).Inc()
}

// =========================================
// 通用辅助函数
// =========================================

func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

func SetGauge(gauge prometheus.Gauge, value float64) {
	gauge.Set(value)
}

func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
