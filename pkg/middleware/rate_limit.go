package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type RateLimiterConfig struct {
	// Stops the visitor cleanup when cancelled. Nil runs it for the life of the process
	Context context.Context

	RequestsPerSecond int
	Burst             int
	CleanupInterval   time.Duration
	TTL               time.Duration
}

type visitors struct {
	mu    sync.Mutex
	seen  map[string]*visitor
	rps   int
	burst int
}

func (v *visitors) get(ip string) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	e, exists := v.seen[ip]
	if !exists {
		limiter := rate.NewLimiter(rate.Limit(v.rps), v.burst)
		v.seen[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	e.lastSeen = time.Now()
	return e.limiter
}

func (v *visitors) cleanup(ctx context.Context, ttl time.Duration, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		v.mu.Lock()
		for ip, e := range v.seen {
			if time.Since(e.lastSeen) > ttl {
				delete(v.seen, ip)
			}
		}
		v.mu.Unlock()
	}
}

// RateLimiterMiddleware limits requests per client IP. A RequestsPerSecond of
// 0 or less turns limiting off
func RateLimiterMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	if config.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
	if config.TTL == 0 {
		config.TTL = 3 * time.Minute
	}
	if config.Burst <= 0 {
		config.Burst = config.RequestsPerSecond
	}

	v := &visitors{
		seen:  make(map[string]*visitor),
		rps:   config.RequestsPerSecond,
		burst: config.Burst,
	}

	if config.Context == nil {
		config.Context = context.Background()
	}

	go v.cleanup(config.Context, config.TTL, config.CleanupInterval)

	return func(c *gin.Context) {
		if !v.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     "Too many requests",
				"requestID": c.GetString("requestID"),
			})
			return
		}

		c.Next()
	}
}
