package middleware

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yungbote/blueprints-backend/internal/http/response"
)

var errRateLimited = errors.New("rate limit exceeded")

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// Idle limiters are evicted after this long without a request.
	IdleTTL time.Duration
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 50,
		Burst:             100,
		IdleTTL:           10 * time.Minute,
	}
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiters struct {
	mu      sync.Mutex
	cfg     RateLimitConfig
	clients map[string]*ipLimiter
	lastGC  time.Time
	now     func() time.Time
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if l.cfg.IdleTTL > 0 && now.Sub(l.lastGC) > l.cfg.IdleTTL {
		for k, v := range l.clients {
			if now.Sub(v.lastSeen) > l.cfg.IdleTTL {
				delete(l.clients, k)
			}
		}
		l.lastGC = now
	}
	cl, ok := l.clients[ip]
	if !ok {
		cl = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// RateLimit creates a per-IP token bucket middleware.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	limiters := &ipLimiters{
		cfg:     cfg,
		clients: map[string]*ipLimiter{},
		now:     time.Now,
	}
	limiters.lastGC = limiters.now()

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			response.AbortWithError(c, http.StatusTooManyRequests, errRateLimited)
			return
		}
		c.Next()
	}
}
