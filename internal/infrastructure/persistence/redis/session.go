package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
)

// SessionStore 会话与Token撤销存储
// 设计说明：
// 1. 登录时记录会话（登录时间、IP），登出时删除
// 2. 撤销列表按jti记录，TTL=Token剩余有效期，过期自动清理
// 3. 所有调用经过熔断器；Redis不可用时返回错误，撤销检查失败按未通过处理
//
// Key设计：
//   - session:{user_id}  用户会话（hash）
//   - revoked:{jti}      已撤销的Token
type SessionStore struct {
	client  *redis.Client
	breaker *circuitbreaker.CircuitBreaker
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client, breaker *circuitbreaker.CircuitBreaker) *SessionStore {
	return &SessionStore{client: client, breaker: breaker}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d", userID)
}

func revokedKey(jti string) string {
	return "revoked:" + jti
}

// SaveSession 保存用户会话，过期时间与Refresh Token一致
func (s *SessionStore) SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(userID)
	err := s.do(ctx, func(ctx context.Context) error {
		pipe := s.client.TxPipeline()
		pipe.HSet(ctx, key, data)
		pipe.Expire(ctx, key, ttl)
		_, err := pipe.Exec(ctx)
		return err
	})
	if err != nil {
		return wrap(err, "保存会话失败")
	}
	return nil
}

// DeleteSession 删除用户会话（登出）
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	err := s.do(ctx, func(ctx context.Context) error {
		return s.client.Del(ctx, sessionKey(userID)).Err()
	})
	if err != nil {
		return wrap(err, "删除会话失败")
	}
	return nil
}

// Revoke 撤销Token；ttl<=0说明Token已经过期，无需记录
func (s *SessionStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	err := s.do(ctx, func(ctx context.Context) error {
		return s.client.Set(ctx, revokedKey(jti), "1", ttl).Err()
	})
	if err != nil {
		return wrap(err, "撤销Token失败")
	}
	return nil
}

// IsRevoked 检查Token是否已撤销
func (s *SessionStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var exists int64
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		exists, err = s.client.Exists(ctx, revokedKey(jti)).Result()
		return err
	})
	if err != nil {
		return false, wrap(err, "检查Token状态失败")
	}
	return exists > 0, nil
}

// Ping 供gRPC健康检查使用，熔断打开时直接返回错误
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.do(ctx, func(ctx context.Context) error {
		return s.client.Ping(ctx).Err()
	})
}

func (s *SessionStore) do(ctx context.Context, fn func(ctx context.Context) error) error {
	name := s.breaker.Name()
	err := s.breaker.Execute(ctx, fn)
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": name, "result": "rejected"})
	case err != nil && !errors.Is(err, redis.Nil):
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": name, "result": "failure"})
	default:
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": name, "result": "success"})
	}
	return err
}

func wrap(err error, message string) error {
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeRedisError,
		Message: message,
		Err:     err,
	}
}
