package security

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORSPolicy Origin 白名单，配置热更新时整体换掉
type CORSPolicy struct {
	mu      sync.RWMutex
	origins map[string]bool
}

func NewCORSPolicy(allowedOrigins []string) *CORSPolicy {
	p := &CORSPolicy{}
	p.Update(allowedOrigins)
	return p
}

// Update 替换白名单，之后的请求用新名单
func (p *CORSPolicy) Update(allowedOrigins []string) {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	p.mu.Lock()
	p.origins = origins
	p.mu.Unlock()
}

func (p *CORSPolicy) allowed(origin string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.origins[origin]
}

// Middleware 仅允许白名单中的Origin，支持Credentials
func (p *CORSPolicy) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if origin != "" && p.allowed(origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// Secure 中间件
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 防止MIME嗅探
		c.Header("X-Content-Type-Options", "nosniff")
		// 防止点击劫持
		c.Header("X-Frame-Options", "DENY")
		// XSS保护
		c.Header("X-XSS-Protection", "1; mode=block")
		// HSTS
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Next()
	}
}

// visitor 包装限流器和最后活跃时间，用于定期清理
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitPolicy 按IP限流，限流参数可热更新，自动清理过期条目
type RateLimitPolicy struct {
	mu     sync.Mutex
	store  map[string]*visitor
	limit  rate.Limit
	burst  int
	window time.Duration
}

func NewRateLimitPolicy(maxRequests int, window time.Duration) *RateLimitPolicy {
	p := &RateLimitPolicy{store: make(map[string]*visitor)}
	p.Update(maxRequests, window)

	go p.janitor()
	return p
}

// Update 应用新的限流参数，已有访客的限流器原地调整
func (p *RateLimitPolicy) Update(maxRequests int, window time.Duration) {
	limit := rate.Every(window / time.Duration(maxRequests))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.limit = limit
	p.burst = maxRequests
	p.window = window
	for _, v := range p.store {
		v.limiter.SetLimit(limit)
		v.limiter.SetBurst(maxRequests)
	}
}

func (p *RateLimitPolicy) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		p.mu.Lock()
		expiry := p.window * 3
		if expiry < time.Minute {
			expiry = time.Minute
		}
		for ip, v := range p.store {
			if time.Since(v.lastSeen) > expiry {
				delete(p.store, ip)
			}
		}
		p.mu.Unlock()
	}
}

func (p *RateLimitPolicy) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		p.mu.Lock()
		v, exists := p.store[key]
		if !exists {
			v = &visitor{
				limiter: rate.NewLimiter(p.limit, p.burst),
			}
			p.store[key] = v
		}
		v.lastSeen = time.Now()
		p.mu.Unlock()

		if !v.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
