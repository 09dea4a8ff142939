// Package middleware holds gin middleware shared by the API routes.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const maxTrackedKeys = 10000

// RateLimiter keeps one token bucket per user, or per client IP for anonymous callers.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	log      *logrus.Entry
}

// NewRateLimiter allows perMinute requests per key per minute, all of which may be
// spent at once.
func NewRateLimiter(perMinute int, log *logrus.Logger) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		log:      log.WithField("component", "ratelimit"),
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if user, ok := auth.CurrentUser(c); ok {
			key = "user:" + user.UserID
		}

		r := rl.limiter(key).Reserve()
		if delay := r.Delay(); delay > 0 {
			r.Cancel()
			rl.log.WithFields(logrus.Fields{
				"key":  key,
				"path": c.Request.URL.Path,
			}).Warn("Rate limit exceeded")
			c.Header("Retry-After", strconv.Itoa(int(delay.Round(time.Second).Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, try again later"})
			return
		}
		c.Next()
	}
}

// Cleanup drops every bucket once too many keys are tracked.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.limiters) > maxTrackedKeys {
		rl.limiters = make(map[string]*rate.Limiter)
	}
}

func (rl *RateLimiter) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()
}
