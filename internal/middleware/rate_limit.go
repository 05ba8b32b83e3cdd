package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter throttles requests with a token bucket per caller. Read
// endpoints key on client IP; mutation endpoints key on the mentor
// session when one exists so a single mentor cannot hammer the platform
// API from many addresses.
type RateLimiter struct {
	callers map[string]*rate.Limiter
	mu      sync.Mutex
	r       rate.Limit
	b       int
}

// NewRateLimiter creates a rate limiter allowing r requests per second
// with bursts of up to b requests per caller.
func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	rl := &RateLimiter{
		callers: make(map[string]*rate.Limiter),
		r:       r,
		b:       b,
	}

	// Drop idle buckets once a minute
	go rl.cleanup()

	return rl
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.callers[key]
	if !ok {
		limiter = rate.NewLimiter(rl.r, rl.b)
		rl.callers[key] = limiter
	}
	return limiter
}

// cleanup evicts callers whose bucket has fully refilled, meaning they
// have been idle long enough to forget about.
func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)

		rl.mu.Lock()
		for key, limiter := range rl.callers {
			if limiter.Tokens() >= float64(rl.b) {
				delete(rl.callers, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware limits by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

// SessionMiddleware limits by mentor session, falling back to client IP
// for requests that carry no credential. Must run after
// CredentialMiddleware to see the session key.
func (rl *RateLimiter) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := GetMentorUsername(c)
		if !ok {
			key = c.ClientIP()
		}
		if !rl.limiterFor(key).Allow() {
			tooManyRequests(c)
			return
		}
		c.Next()
	}
}

func tooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error": "Rate limit exceeded. Please try again later.",
	})
	c.Abort()
}
