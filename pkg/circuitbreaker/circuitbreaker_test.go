package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errUnavailable = errors.New("redis unavailable")
	errCacheMiss   = errors.New("cache miss")
)

func fail(context.Context) error    { return errUnavailable }
func succeed(context.Context) error { return nil }

// TestCircuitBreaker_ClosedState 关闭状态下请求正常通过
func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := New("cache", Config{Interval: 10 * time.Second})

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(context.Background(), succeed))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
}

// TestCircuitBreaker_Trip 连续失败达到阈值后熔断，不再调用fn
func TestCircuitBreaker_Trip(t *testing.T) {
	cb := New("cache", Config{
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 3 },
		Timeout:     time.Minute,
	})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(context.Background(), fail), errUnavailable)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断器打开时不应该调用实际函数")
}

// TestCircuitBreaker_HalfOpen 超时后半开，试探成功则关闭
func TestCircuitBreaker_HalfOpen(t *testing.T) {
	cb := New("cache", Config{
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
		Timeout:     50 * time.Millisecond,
	})

	_ = cb.Execute(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(context.Background(), succeed))
	assert.Equal(t, StateClosed, cb.State())
}

// TestCircuitBreaker_HalfOpenToOpen 半开状态试探失败则重新打开
func TestCircuitBreaker_HalfOpenToOpen(t *testing.T) {
	cb := New("cache", Config{
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
		Timeout:     50 * time.Millisecond,
	})

	_ = cb.Execute(context.Background(), fail)
	time.Sleep(80 * time.Millisecond)

	assert.ErrorIs(t, cb.Execute(context.Background(), fail), errUnavailable)
	assert.Equal(t, StateOpen, cb.State())
}

// TestCircuitBreaker_IsSuccessful 缓存未命中不计为失败
func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	cb := New("cache", Config{
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 2 },
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errCacheMiss)
		},
	})

	for i := 0; i < 5; i++ {
		err := cb.Execute(context.Background(), func(context.Context) error { return errCacheMiss })
		assert.ErrorIs(t, err, errCacheMiss)
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(0), cb.Counts().TotalFailures)
}

// TestCircuitBreaker_StateChangeCallback 状态变化回调
func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var mu sync.Mutex
	var transitions []string

	cb := New("cache", Config{
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
		Timeout:     30 * time.Millisecond,
		OnStateChange: func(name string, from, to State) {
			mu.Lock()
			defer mu.Unlock()
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	_ = cb.Execute(context.Background(), fail)
	time.Sleep(50 * time.Millisecond)
	_ = cb.Execute(context.Background(), succeed)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

// TestCircuitBreaker_CanceledContext 已取消的ctx不消耗请求名额
func TestCircuitBreaker_CanceledContext(t *testing.T) {
	cb := New("cache", Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cb.Execute(ctx, succeed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint32(0), cb.Counts().Requests)
}

// TestCounts_FailureRate 失败率计算
func TestCounts_FailureRate(t *testing.T) {
	assert.Equal(t, 0.0, Counts{}.FailureRate())
	assert.Equal(t, 0.25, Counts{Requests: 4, TotalFailures: 1}.FailureRate())
}

func BenchmarkCircuitBreaker(b *testing.B) {
	cb := New("bench", DefaultConfig())
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(ctx, succeed)
	}
}
