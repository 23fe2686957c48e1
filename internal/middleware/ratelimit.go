package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitConfig defines a fixed window limit.
type RateLimitConfig struct {
	// RequestsPerWindow is the maximum number of requests allowed per window.
	RequestsPerWindow int
	// WindowDuration is the length of one window.
	WindowDuration time.Duration
}

// Validate checks that both fields are positive.
func (c RateLimitConfig) Validate() error {
	if c.RequestsPerWindow <= 0 {
		return fmt.Errorf("RequestsPerWindow must be > 0 (got %d)", c.RequestsPerWindow)
	}
	if c.WindowDuration <= 0 {
		return fmt.Errorf("WindowDuration must be > 0 (got %s)", c.WindowDuration)
	}
	return nil
}

// DefaultRateLimit is 100 requests per minute per client.
func DefaultRateLimit() RateLimitConfig {
	return RateLimitConfig{RequestsPerWindow: 100, WindowDuration: time.Minute}
}

// RateLimitResult is the outcome of one Allow call.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int // requests left in the current window
	RetryAfter int // seconds until the window resets; set when not allowed
}

// RateLimitStore keeps per-key window counters.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, config RateLimitConfig) (RateLimitResult, error)
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// InMemoryRateLimitStore is a fixed window RateLimitStore local to one process.
type InMemoryRateLimitStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// NewInMemoryRateLimitStore creates a new in-memory rate limit store.
func NewInMemoryRateLimitStore() *InMemoryRateLimitStore {
	return &InMemoryRateLimitStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow counts a request for key. It never returns an error.
func (s *InMemoryRateLimitStore) Allow(_ context.Context, key string, config RateLimitConfig) (RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b, exists := s.buckets[key]
	if !exists || !now.Before(b.windowEnd) {
		b = &bucket{windowEnd: now.Add(config.WindowDuration)}
		s.buckets[key] = b
	}

	if b.count < config.RequestsPerWindow {
		b.count++
		return RateLimitResult{Allowed: true, Remaining: config.RequestsPerWindow - b.count}, nil
	}

	return RateLimitResult{RetryAfter: retryAfterSeconds(b.windowEnd.Sub(now))}, nil
}

// Cleanup removes expired buckets. Call it periodically, every few windows.
func (s *InMemoryRateLimitStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, b := range s.buckets {
		if !now.Before(b.windowEnd) {
			delete(s.buckets, key)
		}
	}
}

// fixedWindowScript increments the counter and starts the window on the
// first hit. It returns {count, pttl}.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {current, ttl}
`)

// RedisRateLimitStore is a fixed window RateLimitStore shared by every
// instance pointing at the same Redis.
type RedisRateLimitStore struct {
	client redis.Scripter
	prefix string
}

// NewRedisRateLimitStore creates a store keeping counters under "ratelimit:".
func NewRedisRateLimitStore(client redis.Scripter) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client, prefix: "ratelimit:"}
}

// Allow counts a request for key atomically in Redis.
func (s *RedisRateLimitStore) Allow(ctx context.Context, key string, config RateLimitConfig) (RateLimitResult, error) {
	window := config.WindowDuration.Milliseconds()
	res, err := fixedWindowScript.Run(ctx, s.client, []string{s.prefix + key}, window).Int64Slice()
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("rate limit script: %w", err)
	}
	if len(res) != 2 {
		return RateLimitResult{}, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if count <= config.RequestsPerWindow {
		return RateLimitResult{Allowed: true, Remaining: config.RequestsPerWindow - count}, nil
	}
	return RateLimitResult{RetryAfter: retryAfterSeconds(ttl)}, nil
}

func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs <= 0 {
		return 1
	}
	return secs
}

// KeyFunc extracts a rate limit key from an HTTP request.
type KeyFunc func(r *http.Request) string

// IPKeyFunc keys requests by client IP taken from RemoteAddr. Install a
// real-IP middleware in front when running behind a proxy.
func IPKeyFunc() KeyFunc {
	return func(r *http.Request) string {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return "ip:" + r.RemoteAddr
		}
		return "ip:" + host
	}
}

// RateLimiter rejects requests over the limit with 429 Too Many Requests
// and a JSON error body. Store errors are logged and the request is let
// through. metrics may be nil.
func RateLimiter(store RateLimitStore, config RateLimitConfig, keyFunc KeyFunc, metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := normalizePath(r.URL.Path)
			if metrics != nil {
				metrics.IncRateLimitRequests(path)
			}

			res, err := store.Allow(r.Context(), keyFunc(r), config)
			if err != nil {
				slog.WarnContext(r.Context(), "rate limit store unavailable, allowing request", "error", err)
				if metrics != nil {
					metrics.IncRateLimitStoreErrors()
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				if metrics != nil {
					metrics.IncRateLimitBlocked(path)
				}
				ctx := SetErrorCode(r.Context(), "rate_limited")
				UpdateResponseContext(w, ctx)

				resetAt := time.Now().Add(time.Duration(res.RetryAfter) * time.Second).Unix()
				w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfter))
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]map[string]string{
					"error": {"code": "rate_limited", "message": "Muitas requisições, tente novamente mais tarde"},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
