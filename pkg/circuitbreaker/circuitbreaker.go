// Package circuitbreaker 为外部依赖（Redis缓存、消息队列）提供熔断保护
//
// 状态机：
//
//	CLOSED ──连续失败达到阈值──▶ OPEN ──Timeout到期──▶ HALF_OPEN
//	  ▲                                                  │
//	  └──────────────────试探请求成功────────────────────┘
//	                      试探请求失败 ──▶ OPEN
//
// 缓存属于可降级依赖：熔断打开时调用方直接回源数据库，
// 不再等待Redis超时，避免每个请求都多付出一次超时开销。
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpenState 熔断打开（或半开状态试探名额已满）时拒绝请求
var ErrOpenState = errors.New("circuit breaker is open")

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态允许通过的试探请求数
	MaxRequests uint32
	// Interval 关闭状态下统计窗口长度，到期清零计数
	Interval time.Duration
	// Timeout 打开状态持续时间，到期进入半开
	Timeout time.Duration
	// ReadyToTrip 关闭状态下每次失败后调用，返回true则打开熔断
	ReadyToTrip func(counts Counts) bool
	// IsSuccessful 判断一次调用结果是否计为成功
	// 例如缓存未命中（redis.Nil）是正常结果，不应计为失败
	IsSuccessful func(err error) bool
	// OnStateChange 状态变化回调（用于日志、指标）
	OnStateChange func(name string, from, to State)
}

// DefaultConfig 默认配置：连续失败5次打开，30秒后半开，半开放行1个请求
func DefaultConfig() Config {
	return Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 5 },
	}
}

// Counts 统计窗口内的计数
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// FailureRate 失败率
func (c Counts) FailureRate() float64 {
	if c.Requests == 0 {
		return 0
	}
	return float64(c.TotalFailures) / float64(c.Requests)
}

func (c *Counts) success() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) failure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// CircuitBreaker 熔断器，可被多个goroutine并发使用
type CircuitBreaker struct {
	name   string
	config Config

	mu         sync.Mutex
	state      State
	generation uint64 // 每次状态切换递增，丢弃旧周期请求的结果
	counts     Counts
	expiry     time.Time
}

// New 创建熔断器，零值字段使用DefaultConfig中的值
func New(name string, config Config) *CircuitBreaker {
	def := DefaultConfig()
	if config.MaxRequests == 0 {
		config.MaxRequests = def.MaxRequests
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.ReadyToTrip == nil {
		config.ReadyToTrip = def.ReadyToTrip
	}
	if config.IsSuccessful == nil {
		config.IsSuccessful = func(err error) bool { return err == nil }
	}

	cb := &CircuitBreaker{
		name:   name,
		config: config,
		state:  StateClosed,
	}
	if config.Interval > 0 {
		cb.expiry = time.Now().Add(config.Interval)
	}
	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// Execute 在熔断保护下执行fn
// 熔断打开时不调用fn，直接返回ErrOpenState；ctx已取消时直接返回ctx.Err()
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	generation, err := cb.before()
	if err != nil {
		return err
	}

	err = fn(ctx)
	cb.after(generation, cb.config.IsSuccessful(err))
	return err
}

// State 当前状态（会触发OPEN→HALF_OPEN的到期检查）
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, _ := cb.current(time.Now())
	return state
}

// Counts 当前统计窗口的计数快照
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.counts
}

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state, generation := cb.current(time.Now())
	switch {
	case state == StateOpen:
		return generation, ErrOpenState
	case state == StateHalfOpen && cb.counts.Requests >= cb.config.MaxRequests:
		return generation, ErrOpenState
	}

	cb.counts.Requests++
	return generation, nil
}

func (cb *CircuitBreaker) after(before uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := time.Now()
	state, generation := cb.current(now)
	if generation != before {
		return
	}

	if success {
		cb.counts.success()
		if state == StateHalfOpen {
			cb.transition(StateClosed, now)
		}
		return
	}

	cb.counts.failure()
	switch state {
	case StateClosed:
		if cb.config.ReadyToTrip(cb.counts) {
			cb.transition(StateOpen, now)
		}
	case StateHalfOpen:
		cb.transition(StateOpen, now)
	}
}

// current 调用方必须持有mu
func (cb *CircuitBreaker) current(now time.Time) (State, uint64) {
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.counts = Counts{}
			cb.expiry = now.Add(cb.config.Interval)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			cb.transition(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation
}

// transition 调用方必须持有mu
func (cb *CircuitBreaker) transition(to State, now time.Time) {
	if cb.state == to {
		return
	}

	from := cb.state
	cb.state = to
	cb.generation++
	cb.counts = Counts{}

	switch to {
	case StateClosed:
		if cb.config.Interval > 0 {
			cb.expiry = now.Add(cb.config.Interval)
		} else {
			cb.expiry = time.Time{}
		}
	case StateOpen:
		cb.expiry = now.Add(cb.config.Timeout)
	case StateHalfOpen:
		cb.expiry = time.Time{}
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.name, from, to)
	}
}
