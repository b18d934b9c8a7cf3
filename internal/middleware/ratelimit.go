// ratelimit.go implements per-client rate limiting with a token bucket.
//
// How token bucket works:
// - Each client IP gets a bucket holding up to `burst` tokens
// - Each request consumes 1 token
// - Tokens refill at a steady rate (perMinute tokens per minute)
// - If the bucket is empty, the request is rejected with 429 Too Many Requests
//
// Uploads are expensive (two documents parsed per request), so the limit
// keeps a single client from monopolizing the extraction workers.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Shimizu-Technology/doc-compare-api/internal/models"
)

// staleAfter is how long a client can stay idle before its bucket is dropped.
const staleAfter = 10 * time.Minute

// RateLimiter tracks request rates per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client

	perMinute int
	limit     rate.Limit
	burst     int

	stop     chan struct{}
	stopOnce sync.Once
}

// client is the token bucket state for one IP.
type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per client
// with bursts of up to burst requests, and starts its cleanup goroutine.
// Call Stop when done.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	if burst < 1 {
		burst = 1
	}

	rl := &RateLimiter{
		clients:   make(map[string]*client),
		perMinute: perMinute,
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     burst,
		stop:      make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// RateLimit returns Gin middleware that enforces the per-client limit.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.limiterFor(c.ClientIP(), time.Now())

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.perMinute))

		if !limiter.Allow() {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(rl.perMinute)))
			c.JSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Rate limit exceeded. Try again later.",
				Code:    http.StatusTooManyRequests,
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Next()
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) limiterFor(ip string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// evict drops clients not seen since before now-staleAfter and returns how
// many were removed.
func (rl *RateLimiter) evict(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, cl := range rl.clients {
		if now.Sub(cl.lastSeen) > staleAfter {
			delete(rl.clients, ip)
			removed++
		}
	}
	return removed
}

// cleanup periodically removes stale clients to prevent memory leaks.
func (rl *RateLimiter) cleanup() {
	// Go Pattern: time.Ticker sends values at regular intervals.
	// Always defer ticker.Stop() to release resources.
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.evict(now)
		case <-rl.stop:
			return
		}
	}
}

// retryAfterSeconds is how long one token takes to refill, rounded up.
func retryAfterSeconds(perMinute int) int {
	return (60 + perMinute - 1) / perMinute
}
