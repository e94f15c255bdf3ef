package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/allergy-scan/pkg/auth"
	"github.com/tair/allergy-scan/pkg/httpx"
	"github.com/tair/allergy-scan/pkg/logger"
)

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Window counts requests per identifier over a sliding window
type Window interface {
	Allow(ctx context.Context, identifier string) (Decision, error)
}

// RedisWindow keeps the sliding window in a Redis sorted set so every
// replica shares the same budget
type RedisWindow struct {
	redis       *redis.Client
	prefix      string
	maxRequests int
	window      time.Duration
}

// NewRedisWindow creates a Redis backed window
func NewRedisWindow(client *redis.Client, prefix string, maxRequests int, window time.Duration) *RedisWindow {
	return &RedisWindow{redis: client, prefix: prefix, maxRequests: maxRequests, window: window}
}

// Allow records the request and reports whether it fits in the window
func (rw *RedisWindow) Allow(ctx context.Context, identifier string) (Decision, error) {
	key := rw.prefix + "ratelimit:" + identifier
	now := time.Now()
	windowStart := now.Add(-rw.window)

	pipe := rw.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	pipe.Expire(ctx, key, rw.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit pipeline: %w", err)
	}

	return decide(int(countCmd.Val()), rw.maxRequests, now.Add(rw.window)), nil
}

// MemoryWindow is the single process variant
type MemoryWindow struct {
	maxRequests int
	window      time.Duration
	now         func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
}

// NewMemoryWindow creates an in-process window
func NewMemoryWindow(maxRequests int, window time.Duration) *MemoryWindow {
	return &MemoryWindow{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		hits:        make(map[string][]time.Time),
	}
}

// Allow records the request and reports whether it fits in the window
func (mw *MemoryWindow) Allow(_ context.Context, identifier string) (Decision, error) {
	now := mw.now()
	windowStart := now.Add(-mw.window)

	mw.mu.Lock()
	defer mw.mu.Unlock()

	hits := mw.hits[identifier]
	// hits are appended in time order
	cut := sort.Search(len(hits), func(i int) bool { return hits[i].After(windowStart) })
	hits = append(hits[cut:], now)
	mw.hits[identifier] = hits

	return decide(len(hits)-1, mw.maxRequests, now.Add(mw.window)), nil
}

func decide(count, maxRequests int, reset time.Time) Decision {
	remaining := maxRequests - count - 1
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count < maxRequests,
		Limit:     maxRequests,
		Remaining: remaining,
		Reset:     reset,
	}
}

// Limiter applies a Window to HTTP handlers
type Limiter struct {
	window Window
	name   string
}

// NewLimiter creates a limiter; name labels its log lines
func NewLimiter(window Window, name string) *Limiter {
	return &Limiter{window: window, name: name}
}

// Wrap rejects requests over the limit with 429. A nil limiter passes every
// request through.
func (l *Limiter) Wrap(next http.HandlerFunc) http.HandlerFunc {
	if l == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := Identifier(r)

		d, err := l.window.Allow(r.Context(), identifier)
		if err != nil {
			// On error, allow request but log it
			logger.Error(r.Context()).
				Err(err).
				Str("limiter", l.name).
				Str("identifier", identifier).
				Msg("Rate limiter error")
			next(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))

		if !d.Allowed {
			logger.Warn(r.Context()).
				Str("limiter", l.name).
				Str("identifier", identifier).
				Int("limit", d.Limit).
				Msg("Rate limit exceeded")
			retry := time.Until(d.Reset).Round(time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
			httpx.RespondError(w, http.StatusTooManyRequests,
				fmt.Sprintf("Too many requests. Try again in %v", retry))
			return
		}

		next(w, r)
	}
}

// Identifier is the token ID when the request is authenticated, otherwise
// the client IP
func Identifier(r *http.Request) string {
	if id, ok := r.Context().Value(auth.TokenIDKey).(string); ok && id != "" {
		return "token:" + id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
