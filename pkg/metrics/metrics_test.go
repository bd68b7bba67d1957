package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestInitMetrics 测试指标初始化（可重复调用）
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	if HTTPRequestsTotal == nil {
		t.Error("HTTPRequestsTotal未初始化")
	}
	if StoreQueriesTotal == nil {
		t.Error("StoreQueriesTotal未初始化")
	}
	if CategoryTreeTruncationsTotal == nil {
		t.Error("CategoryTreeTruncationsTotal未初始化")
	}

	t.Log("✅ 所有指标初始化成功")
}

// TestObserveStoreQuery 测试数据库往返计数
func TestObserveStoreQuery(t *testing.T) {
	before := getCounterVecValue(t, storeQueries(), map[string]string{"operation": "query"})

	ObserveStoreQuery("query")
	ObserveStoreQuery("query")
	ObserveStoreQuery("row")

	got := getCounterVecValue(t, StoreQueriesTotal, map[string]string{"operation": "query"})
	if got-before != 2 {
		t.Errorf("query计数错误: expected=2, got=%f", got-before)
	}

	t.Log("✅ 存储往返计数测试通过")
}

// TestObserveCache 测试缓存命中统计
func TestObserveCache(t *testing.T) {
	InitMetrics()
	hit := map[string]string{"cache": "book_detail", "result": CacheHit}
	miss := map[string]string{"cache": "book_detail", "result": CacheMiss}
	hitBefore := getCounterVecValue(t, CacheRequestsTotal, hit)
	missBefore := getCounterVecValue(t, CacheRequestsTotal, miss)

	ObserveCache("book_detail", CacheHit)
	ObserveCache("book_detail", CacheMiss)
	ObserveCache("book_detail", CacheHit)

	if v := getCounterVecValue(t, CacheRequestsTotal, hit) - hitBefore; v != 2 {
		t.Errorf("命中计数错误: expected=2, got=%f", v)
	}
	if v := getCounterVecValue(t, CacheRequestsTotal, miss) - missBefore; v != 1 {
		t.Errorf("未命中计数错误: expected=1, got=%f", v)
	}
}

// TestCircuitBreakerGauge 测试熔断器状态Gauge
func TestCircuitBreakerGauge(t *testing.T) {
	SetCircuitBreakerState("redis-cache", 1)
	SetCircuitBreakerState("mq", 0)

	if v := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "redis-cache"}); v != 1 {
		t.Errorf("GaugeVec值错误: expected=1, got=%f", v)
	}
	if v := getGaugeVecValue(t, CircuitBreakerState, map[string]string{"name": "mq"}); v != 0 {
		t.Errorf("GaugeVec值错误: expected=0, got=%f", v)
	}
}

// TestBusinessCounters 测试业务计数器
func TestBusinessCounters(t *testing.T) {
	InitMetrics()
	before := getCounterValue(t, CategoryTreeTruncationsTotal)
	IncCategoryTruncation()
	if v := getCounterValue(t, CategoryTreeTruncationsTotal) - before; v != 1 {
		t.Errorf("截断计数错误: expected=1, got=%f", v)
	}

	IncReviewCreated("5")
	if v := getCounterVecValue(t, ReviewsCreatedTotal, map[string]string{"rating": "5"}); v < 1 {
		t.Errorf("评论计数错误: got=%f", v)
	}
}

// TestGauge 测试处理中的请求数
func TestGauge(t *testing.T) {
	InitMetrics()
	SetGauge(HTTPRequestsInProgress, 0)

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)

	if v := getGaugeValue(t, HTTPRequestsInProgress); v != 1 {
		t.Errorf("Gauge值错误: expected=1, got=%f", v)
	}
}

// storeQueries 确保初始化后返回StoreQueriesTotal
func storeQueries() *prometheus.CounterVec {
	InitMetrics()
	return StoreQueriesTotal
}

// 辅助函数：获取Counter值
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("读取Counter值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取CounterVec值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	var metric dto.Metric
	counter := counterVec.With(labels)
	if err := counter.(prometheus.Counter).Write(&metric); err != nil {
		t.Fatalf("读取CounterVec值失败: %v", err)
	}
	return metric.Counter.GetValue()
}

// 辅助函数：获取Gauge值
func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	var metric dto.Metric
	if err := gauge.Write(&metric); err != nil {
		t.Fatalf("读取Gauge值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}

// 辅助函数：获取GaugeVec值
func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	var metric dto.Metric
	gauge := gaugeVec.With(labels)
	if err := gauge.(prometheus.Gauge).Write(&metric); err != nil {
		t.Fatalf("读取GaugeVec值失败: %v", err)
	}
	return metric.Gauge.GetValue()
}
