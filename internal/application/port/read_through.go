package port

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/readify/pkg/metrics"
)

// ReadThrough 先读缓存,未命中时调用load并回写
// 缓存故障(包括熔断打开)只记录日志,降级为直接读取
func ReadThrough[T any](
	ctx context.Context,
	cache DocumentCache,
	log *zap.Logger,
	name, key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	if _, ok := cache.(NopCache); ok {
		return load(ctx)
	}

	var cached T
	hit, err := cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.ObserveCache(name, metrics.CacheError)
		log.Warn("读取缓存失败,回源", zap.String("key", key), zap.Error(err))
	case hit:
		metrics.ObserveCache(name, metrics.CacheHit)
		return cached, nil
	default:
		metrics.ObserveCache(name, metrics.CacheMiss)
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if err := cache.Set(ctx, key, v, ttl); err != nil {
		log.Warn("写入缓存失败", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}
