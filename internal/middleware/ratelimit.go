package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimiter provides rate limiting functionality.
// With a Redis client it keeps a shared sliding window; without one it falls back to
// an in-process token bucket per identifier.
type RateLimiter struct {
	redis       *redis.Client
	maxRequests int
	window      time.Duration
	enabled     bool
	logger      *log.Logger
	now         func() time.Time

	mu        sync.Mutex
	limiters  map[string]*localBucket
	lastPrune time.Time
}

// localBucket is an in-process token bucket and the last time it was used
type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter. redis may be nil.
func NewRateLimiter(redis *redis.Client, maxRequests int, window time.Duration, enabled bool, logger *log.Logger) *RateLimiter {
	return &RateLimiter{
		redis:       redis,
		maxRequests: maxRequests,
		window:      window,
		enabled:     enabled,
		logger:      logger,
		now:         time.Now,
		limiters:    make(map[string]*localBucket),
	}
}

// Limit returns a middleware that rate limits requests
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := rl.getIdentifier(r)

		allowed, err := rl.Allow(r.Context(), identifier)
		if err != nil {
			// Log error but don't block request
			rl.logger.Printf("Rate limit check failed for %s: %v", identifier, err)
		} else if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			http.Error(w, "请求过于频繁，请稍后再试", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getIdentifier returns the identifier for rate limiting.
// A session only counts once the client has sent its cookie back; a request that just
// started a session is keyed by address, so dropping the cookie cannot reset the limit.
func (rl *RateLimiter) getIdentifier(r *http.Request) string {
	if id, ok := GetSessionIDFromContext(r.Context()); ok && !IsNewSession(r.Context()) {
		return fmt.Sprintf("session:%s", id.String())
	}

	// Fallback to IP address
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}
	return fmt.Sprintf("ip:%s", ip)
}

// Allow reports whether one more request from identifier fits in the limit
func (rl *RateLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	if !rl.enabled || rl.maxRequests <= 0 {
		return true, nil
	}
	if rl.redis == nil {
		return rl.allowLocal(identifier), nil
	}
	return rl.checkRedis(ctx, identifier)
}

func (rl *RateLimiter) allowLocal(identifier string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) >= rl.window {
		rl.prune(now)
	}

	b, ok := rl.limiters[identifier]
	if !ok {
		every := rl.window / time.Duration(rl.maxRequests)
		b = &localBucket{limiter: rate.NewLimiter(rate.Every(every), rl.maxRequests)}
		rl.limiters[identifier] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// prune drops buckets idle for a whole window; they have refilled and would be
// recreated in the same state. Callers hold rl.mu.
func (rl *RateLimiter) prune(now time.Time) {
	for id, b := range rl.limiters {
		if now.Sub(b.lastSeen) >= rl.window {
			delete(rl.limiters, id)
		}
	}
	rl.lastPrune = now
}

// checkRedis counts requests in a sliding window kept in a sorted set
func (rl *RateLimiter) checkRedis(ctx context.Context, identifier string) (bool, error) {
	key := fmt.Sprintf("ratelimit:%s", identifier)
	now := time.Now().UnixNano()
	windowStart := now - rl.window.Nanoseconds()

	pipe := rl.redis.Pipeline()

	// Remove old entries outside the window
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))

	// Count requests in current window
	countCmd := pipe.ZCard(ctx, key)

	// Add current request
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now),
		Member: strconv.FormatInt(now, 10),
	})

	// Set expiry on the key
	pipe.Expire(ctx, key, rl.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return countCmd.Val() < int64(rl.maxRequests), nil
}
