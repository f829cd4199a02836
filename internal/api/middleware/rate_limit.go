package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Zerds-Global/Alumini-interaction/pkg/response"
)

// RateChecker 滑动窗口限流，由 Redis 实现
type RateChecker interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

const msgRateLimited = "Too many requests, please try again later"

// RateLimit 基于 Redis 滑动窗口的速率限制中间件
// limit: 窗口内允许的最大请求数
// window: 滑动窗口时长
// checker 为 nil 时退化为进程内按 IP 的令牌桶
func RateLimit(checker RateChecker, limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	local := newIPLimiter(limit, window)

	return func(c *gin.Context) {
		if checker == nil {
			if !local.allow(c.ClientIP(), time.Now()) {
				tooMany(c)
				return
			}
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := checker.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			// Redis 出错时改用本地限流
			allowed = local.allow(c.ClientIP(), time.Now())
		}
		if !allowed {
			tooMany(c)
			return
		}

		c.Next()
	}
}

func tooMany(c *gin.Context) {
	response.Error(c, http.StatusTooManyRequests, response.CodeRateLimited, msgRateLimited)
	c.Abort()
}

// ipLimiter 每个 IP 一个令牌桶：桶容量 limit，每 window/limit 补充一个
type ipLimiter struct {
	mu       sync.Mutex
	limit    int
	every    rate.Limit
	ttl      time.Duration
	visitors map[string]*visitor
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const maxTrackedIPs = 10000

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		limit:    limit,
		every:    rate.Every(window / time.Duration(limit)),
		ttl:      window,
		visitors: make(map[string]*visitor),
	}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.visitors) >= maxTrackedIPs {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.ttl {
				delete(l.visitors, k)
			}
		}
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.limit)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}
