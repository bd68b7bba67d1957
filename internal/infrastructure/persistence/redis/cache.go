package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/readify/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/readify/pkg/errors"
	"github.com/xiebiao/readify/pkg/metrics"
)

// CacheBreakerName 缓存熔断器名称(同时作为指标label)
const CacheBreakerName = "redis-cache"

// CacheStore 以JSON文档形式缓存读路径结果
// 设计说明:
// 1. 所有命令都经过熔断器,Redis故障时快速失败,由调用方回源数据库
// 2. redis.Nil(未命中)是正常结果,不计入熔断失败
// 3. 缓存内容无法解析时视为未命中并删除该key
type CacheStore struct {
	client  *redis.Client
	breaker *circuitbreaker.CircuitBreaker
	log     *zap.Logger
}

// NewCacheStore 创建缓存
func NewCacheStore(client *redis.Client, log *zap.Logger) *CacheStore {
	cfg := circuitbreaker.DefaultConfig()
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, redis.Nil)
	}
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		log.Warn("缓存熔断器状态变化",
			zap.String("name", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
		metrics.SetCircuitBreakerState(name, int(to))
	}

	return &CacheStore{
		client:  client,
		breaker: circuitbreaker.New(CacheBreakerName, cfg),
		log:     log,
	}
}

// Get 读取并反序列化到dest,未命中返回(false, nil)
func (s *CacheStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var data []byte
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		var err error
		data, err = s.client.Get(ctx, key).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: "读取缓存失败", Err: err}
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.log.Warn("缓存内容无法解析,删除", zap.String("key", key), zap.Error(err))
		_ = s.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

// Set 序列化为JSON写入,ttl<=0表示不过期
func (s *CacheStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(err, "缓存序列化失败")
	}
	if ttl < 0 {
		ttl = 0
	}

	err = s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.client.Set(ctx, key, data, ttl).Err()
	})
	if err != nil {
		return &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: "写入缓存失败", Err: err}
	}
	return nil
}

// Delete 删除若干key
func (s *CacheStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		return &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: "删除缓存失败", Err: err}
	}
	return nil
}

// BreakerState 熔断器当前状态
func (s *CacheStore) BreakerState() circuitbreaker.State {
	return s.breaker.State()
}
