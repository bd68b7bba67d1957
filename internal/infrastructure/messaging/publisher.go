// Package messaging 领域事件发布适配器
package messaging

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xiebiao/readify/pkg/circuitbreaker"
	"github.com/xiebiao/readify/pkg/metrics"
)

// BreakerName 消息发布熔断器名称
const BreakerName = "mq-publisher"

// 发布结果(指标label)
const (
	resultOK       = "ok"
	resultError    = "error"
	resultRejected = "rejected"
)

// Broker 底层消息发布(*mq.Publisher)
type Broker interface {
	Exchange() string
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// EventPublisher 在熔断保护下发布事件
// Broker不可用时快速失败,调用方只记录日志
type EventPublisher struct {
	broker  Broker
	breaker *circuitbreaker.CircuitBreaker
	log     *zap.Logger
}

// NewEventPublisher 创建事件发布器
func NewEventPublisher(broker Broker, log *zap.Logger) *EventPublisher {
	cfg := circuitbreaker.DefaultConfig()
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		log.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.SetCircuitBreakerState(name, int(to))
	}

	return &EventPublisher{
		broker:  broker,
		breaker: circuitbreaker.New(BreakerName, cfg),
		log:     log,
	}
}

// Publish 发布事件并记录结果
func (p *EventPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.broker.Publish(ctx, routingKey, payload)
	})

	switch {
	case err == nil:
		metrics.IncMessagePublished(p.broker.Exchange(), routingKey, resultOK)
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.IncMessagePublished(p.broker.Exchange(), routingKey, resultRejected)
	default:
		metrics.IncMessagePublished(p.broker.Exchange(), routingKey, resultError)
	}
	return err
}

// BreakerState 熔断器当前状态
func (p *EventPublisher) BreakerState() circuitbreaker.State {
	return p.breaker.State()
}
