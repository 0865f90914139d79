package middleware

import (
	"strconv"
	"sync"
	"time"

	"pantry-chef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter 令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64
	lastTime time.Time
}

// NewRateLimiter 創建新的限流器：window 內最多 requests 次
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   float64(requests),
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		lastTime: time.Now(),
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	return rl.allowAt(time.Now())
}

func (rl *RateLimiter) allowAt(now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// 補充令牌
	if elapsed := now.Sub(rl.lastTime).Seconds(); elapsed > 0 {
		rl.tokens = min(rl.capacity, rl.tokens+elapsed*rl.rate)
		rl.lastTime = now
	}

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// full 令牌是否已補滿（可回收）
func (rl *RateLimiter) full(now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.tokens+now.Sub(rl.lastTime).Seconds()*rl.rate >= rl.capacity
}

// clientLimiters 每個客戶端 IP 一個令牌桶
type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*RateLimiter
	requests int
	window   time.Duration
	lastGC   time.Time
}

func (cl *clientLimiters) get(ip string, now time.Time) *RateLimiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	// 定期移除已補滿的令牌桶
	if now.Sub(cl.lastGC) > cl.window {
		for key, l := range cl.limiters {
			if l.full(now) {
				delete(cl.limiters, key)
			}
		}
		cl.lastGC = now
	}

	l, ok := cl.limiters[ip]
	if !ok {
		l = NewRateLimiter(cl.requests, cl.window)
		cl.limiters[ip] = l
	}
	return l
}

// RateLimit 依客戶端 IP 限流的中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	clients := &clientLimiters{
		limiters: make(map[string]*RateLimiter),
		requests: requests,
		window:   window,
		lastGC:   time.Now(),
	}

	return func(c *gin.Context) {
		if c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if !clients.get(ip, time.Now()).Allow() {
			common.LogWarn("Rate limit exceeded",
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			abortWithError(c, common.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
