package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/readify/pkg/errors"
)

// SessionStore 会话存储
// Key设计:
// - readify:session:{user_id}   登录信息(Hash),过期时间同Refresh Token
// - readify:blacklist:{sha256}  已注销的Access Token,过期时间为Token剩余有效期
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("readify:session:%d", userID)
}

// blacklistKey Token本身较长,取摘要作为key
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "readify:blacklist:" + hex.EncodeToString(sum[:])
}

// SaveSession 记录登录信息(登录时间、IP等)
func (s *SessionStore) SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(userID)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, data)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: "保存会话失败", Err: err}
	}
	return nil
}

// GetSession 获取登录信息,不存在时返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: "获取会话失败", Err: err}
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除登录信息
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: "删除会话失败", Err: err}
	}
	return nil
}

// AddToBlacklist 注销Token,ttl<=0时不写入(Token已过期)
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: "注销Token失败", Err: err}
	}
	return nil
}

// IsInBlacklist Token是否已注销
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, &apperrors.AppError{Code: apperrors.ErrCodeRedisError, Message: "检查黑名单失败", Err: err}
	}
	return n > 0, nil
}
