// Package port 应用层依赖的外部能力(缓存、事件发布)
// 由infrastructure层实现,未启用时使用Nop实现
package port

import (
	"context"
	"fmt"
	"time"
)

// DocumentCache 已成型的响应文档缓存
type DocumentCache interface {
	// Get 命中时反序列化到dest并返回true;未命中返回(false, nil)
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// EventPublisher 领域事件发布
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// 缓存key
const (
	cacheKeyCategoryTree = "catalog:categories:tree:%d"
	cacheKeyBookDetail   = "catalog:book:detail:%d"
)

// CategoryTreeKey 分类树缓存key(深度不同的结果分开缓存)
func CategoryTreeKey(depth int) string {
	return fmt.Sprintf(cacheKeyCategoryTree, depth)
}

// BookDetailKey 图书详情缓存key
func BookDetailKey(id uint) string {
	return fmt.Sprintf(cacheKeyBookDetail, id)
}

// 事件routing key
const (
	RoutingKeyReviewCreated = "review.created"
)

// NopCache 不缓存
type NopCache struct{}

func (NopCache) Get(context.Context, string, interface{}) (bool, error)         { return false, nil }
func (NopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, ...string) error                       { return nil }

// NopPublisher 丢弃事件
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
