// Package middleware provides HTTP middleware for the recommender.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// maxClients bounds the number of tracked client IPs.
	maxClients = 100_000

	// idleTTL is how long an untouched bucket is remembered.
	idleTTL = 10 * time.Minute
)

// RateLimiter is a token bucket per client IP. Buckets live in an expiring
// LRU, so idle clients are forgotten and a flood of new IPs evicts the
// oldest entries instead of growing without bound.
type RateLimiter struct {
	mu      sync.Mutex
	buckets *expirable.LRU[string, *bucket]
	rate    float64
	burst   float64
	now     func() time.Time
}

type bucket struct {
	tokens   float64
	lastFill time.Time
}

// NewRateLimiter creates a RateLimiter allowing ratePerSec sustained requests
// with bursts of up to burst.
func NewRateLimiter(ratePerSec, burst int) *RateLimiter {
	return &RateLimiter{
		buckets: expirable.NewLRU[string, *bucket](maxClients, nil, idleTTL),
		rate:    float64(ratePerSec),
		burst:   float64(burst),
		now:     time.Now,
	}
}

// Allow reports whether a request from key may proceed, consuming a token.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	b, ok := rl.buckets.Get(key)
	if !ok {
		b = &bucket{tokens: rl.burst, lastFill: now}
	} else {
		b.tokens += now.Sub(b.lastFill).Seconds() * rl.rate
		if b.tokens > rl.burst {
			b.tokens = rl.burst
		}
		b.lastFill = now
	}
	rl.buckets.Add(key, b)

	if b.tokens < 1 {
		return false
	}
	b.tokens--

	return true
}

// Tracked returns the number of client buckets currently held.
func (rl *RateLimiter) Tracked() int {
	return rl.buckets.Len()
}

// Handler returns Gin middleware that applies rate limiting per client IP.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// The router disables proxy header trust, so ClientIP is the peer address.
		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			respondError(c, http.StatusTooManyRequests, "rate_limited", "rate limit exceeded")
			return
		}

		c.Next()
	}
}
