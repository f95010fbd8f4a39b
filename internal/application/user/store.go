package user

import (
	"context"
	"time"
)

// TokenStore 会话与撤销列表存储
// redis.SessionStore实现此接口
type TokenStore interface {
	SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, userID uint) error
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
