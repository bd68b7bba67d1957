package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/xiebiao/readify/pkg/errors"
	"github.com/xiebiao/readify/pkg/response"
)

// idleTTL 超过该时间没有请求的限流器会被清理
const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按客户端的令牌桶限流(登录用户按用户ID,否则按IP)
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	now      func() time.Time
	sweptAt  time.Time
}

// NewRateLimiter rps<=0时不限流
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Middleware 需放在RequireAuth之后才能按用户限流
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rps <= 0 {
			c.Next()
			return
		}

		key := "ip:" + c.ClientIP()
		if uid := GetUserID(c); uid != 0 {
			key = "user:" + strconv.FormatUint(uint64(uid), 10)
		}

		if !rl.allow(key) {
			c.Header("Retry-After", "1")
			response.Error(c, apperrors.ErrTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.sweptAt) > idleTTL {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > idleTTL {
				delete(rl.visitors, k)
			}
		}
		rl.sweptAt = now
	}

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}
