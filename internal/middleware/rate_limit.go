package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/puviyarasu12/Stream-backend/internal/config"
	"github.com/puviyarasu12/Stream-backend/internal/utils"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"
)

// RateLimiter tracks one token bucket per caller.
type RateLimiter struct {
	visitors map[string]*Visitor
	mu       *sync.RWMutex
	requests int
	window   time.Duration
	cleanup  time.Duration
}

// Visitor is one caller's rate limiting state.
type Visitor struct {
	limiter  *TokenBucket
	lastSeen time.Time
}

// TokenBucket allows a burst of capacity requests and refills at a
// steady rate so the window quota holds over time.
type TokenBucket struct {
	tokens   float64
	capacity float64
	rate     float64 // tokens per second
	lastTime time.Time
	mu       *sync.Mutex
}

// NewRateLimiter creates a limiter allowing requests per window for
// each caller key.
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*Visitor),
		mu:       &sync.RWMutex{},
		requests: requests,
		window:   window,
		cleanup:  3 * time.Minute,
	}

	go rl.cleanupVisitors()

	return rl
}

// Allow reports whether the caller identified by key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	visitor, exists := rl.visitors[key]
	if !exists {
		visitor = &Visitor{
			limiter: &TokenBucket{
				tokens:   float64(rl.requests),
				capacity: float64(rl.requests),
				rate:     float64(rl.requests) / rl.window.Seconds(),
				lastTime: time.Now(),
				mu:       &sync.Mutex{},
			},
			lastSeen: time.Now(),
		}
		rl.visitors[key] = visitor
	}

	visitor.lastSeen = time.Now()
	return visitor.limiter.Allow()
}

// Allow takes one token if available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastTime)
	tb.lastTime = now

	tb.tokens += elapsed.Seconds() * tb.rate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}

	return false
}

// cleanupVisitors drops callers that went quiet.
func (rl *RateLimiter) cleanupVisitors() {
	for {
		time.Sleep(rl.cleanup)

		rl.mu.Lock()
		for key, visitor := range rl.visitors {
			if time.Since(visitor.lastSeen) > rl.cleanup {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit throttles general API traffic per caller.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := NewRateLimiter(cfg.Requests, cfg.Window)
	limitHeader := strconv.Itoa(cfg.Requests)

	return func(c *gin.Context) {
		key := getClientKey(c)

		if !limiter.Allow(key) {
			c.Header("X-RateLimit-Limit", limitHeader)
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))

			utils.ErrorResponse(c, http.StatusTooManyRequests, "Rate limit exceeded")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", limitHeader)
		c.Next()
	}
}

// LoginRateLimit throttles credential attempts much harder than the
// general API limit.
func LoginRateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := NewRateLimiter(cfg.LoginRequests, cfg.LoginWindow)

	return func(c *gin.Context) {
		key := getClientKey(c)

		if !limiter.Allow(key) {
			c.Header("Retry-After", strconv.Itoa(int(cfg.LoginWindow.Seconds())))

			utils.ErrorResponse(c, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// getClientKey identifies a caller: user id when authenticated, client
// IP otherwise.
func getClientKey(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return "user:" + userID
	}

	ip := c.ClientIP()

	if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
		ips := strings.Split(forwardedFor, ",")
		if len(ips) > 0 {
			ip = strings.TrimSpace(ips[0])
		}
	} else if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		ip = realIP
	}

	return "ip:" + ip
}

// Logger emits one structured access log line per handled request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.LogRequest(
			c.Request.Method,
			path,
			c.ClientIP(),
			c.Request.UserAgent(),
			time.Since(start),
			c.Writer.Status(),
		)
	}
}
