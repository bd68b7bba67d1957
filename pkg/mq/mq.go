// Package mq 基于RabbitMQ的事件发布
//
// 目前只有发布端：评论创建后发布review.created事件，
// 由下游（推荐、通知等）自行声明队列绑定到exchange消费。
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Envelope 事件信封
// 设计说明：
// 1. ID用于消费端幂等去重
// 2. Type与RoutingKey一致，便于消费端在同一队列处理多种事件
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher 消息发布者
// amqp.Channel不是并发安全的，发布时加锁
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	log      *zap.Logger
}

// NewPublisher 连接RabbitMQ并声明持久化exchange
func NewPublisher(url, exchange, exchangeType string, log *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		exchangeType,
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,
	)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("声明Exchange失败: %w", err)
	}

	log.Info("消息发布者已创建", zap.String("exchange", exchange), zap.String("type", exchangeType))

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		log:      log,
	}, nil
}

// Exchange 发布目标exchange名称
func (p *Publisher) Exchange() string {
	return p.exchange
}

// Publish 将payload包装为Envelope后以持久化消息发布
func (p *Publisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	msg, err := Encode(routingKey, payload, time.Now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	p.log.Debug("消息已发布", zap.String("routing_key", routingKey), zap.String("message_id", msg.MessageId))
	return nil
}

// Close 关闭Channel与连接
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// Encode 构造AMQP消息（与连接无关，便于单独测试）
func Encode(routingKey string, payload interface{}, now time.Time) (amqp.Publishing, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("消息序列化失败: %w", err)
	}

	env := Envelope{
		ID:         uuid.NewString(),
		Type:       routingKey,
		OccurredAt: now.UTC(),
		Payload:    raw,
	}
	body, err := json.Marshal(env)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("消息序列化失败: %w", err)
	}

	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID,
		Type:         routingKey,
		Timestamp:    now,
		Body:         body,
	}, nil
}
