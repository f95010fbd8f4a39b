package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/xiebiao/library/internal/infrastructure/config"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/response"
)

// client 单个IP的令牌桶和最后访问时间（用于清理）
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按客户端IP的令牌桶限流（用于注册/登录/刷新接口）
type RateLimiter struct {
	enabled bool
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu      sync.Mutex
	clients map[string]*client
}

// NewRateLimiter 创建限流器
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	return &RateLimiter{
		enabled: cfg.RateLimit.Enabled,
		limit:   rate.Limit(cfg.RateLimit.RPS),
		burst:   cfg.RateLimit.Burst,
		idleTTL: 3 * time.Minute,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

// Handler gin中间件
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.enabled {
			c.Next()
			return
		}
		if !l.allow(c.ClientIP()) {
			metrics.IncCounterVec(metrics.RateLimitedTotal, map[string]string{"path": c.FullPath()})
			c.Header("Retry-After", "1")
			response.Abort(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = l.now()
	return cl.limiter.AllowN(cl.lastSeen, 1)
}

// Run 每分钟清理一次长时间未访问的IP，ctx取消时退出
func (l *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.evict()
		}
	}
}

func (l *RateLimiter) evict() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for ip, cl := range l.clients {
		if now.Sub(cl.lastSeen) > l.idleTTL {
			delete(l.clients, ip)
		}
	}
}
