package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter 基于客户端 IP 的令牌桶限流器
type IPRateLimiter struct {
	rps        float64
	burst      int
	expireTime time.Duration
	clients    sync.Map
	stopChan   chan struct{}
}

// NewIPRateLimiter creates a per-IP limiter and starts the background
// cleanup goroutine; call StopCleanup on shutdown.
func NewIPRateLimiter(rps float64, burst int, expireTime time.Duration) *IPRateLimiter {
	rl := &IPRateLimiter{
		rps:        rps,
		burst:      burst,
		expireTime: expireTime,
		stopChan:   make(chan struct{}),
	}

	go rl.cleanupStaleClients()

	return rl
}

// Middleware 返回 gin 中间件
func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := clientIP(c)

		val, _ := rl.clients.LoadOrStore(ip, &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.rps), rl.burst),
		})
		client := val.(*clientLimiter)
		client.lastSeen = time.Now()

		if !client.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests",
			})
			return
		}

		c.Next()
	}
}

// StopCleanup 停止后台清理
func (rl *IPRateLimiter) StopCleanup() {
	close(rl.stopChan)
}

func (rl *IPRateLimiter) cleanupStaleClients() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.clients.Range(func(key, value interface{}) bool {
				client := value.(*clientLimiter)
				if time.Since(client.lastSeen) > rl.expireTime {
					rl.clients.Delete(key)
				}
				return true
			})
		case <-rl.stopChan:
			return
		}
	}
}

// clientIP 获取客户端真实 IP
func clientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		parts := strings.Split(ip, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
