package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/vrain/internal/utils"
)

// RateLimitConfig sizes the per-client token bucket guarding preview lookups.
type RateLimitConfig struct {
	Burst      int                // requests a client may fire back to back
	PerMinute  int                // tokens refilled per minute
	IdleTTL    time.Duration      // forget clients idle for this long
	TrustProxy bool               // resolve the client IP from proxy headers
	Rejected   prometheus.Counter // optional, incremented on every 429
}

type tokenBucket struct {
	mu     sync.Mutex
	tokens float64
	filled time.Time
}

// take refills the bucket up to capacity and spends one token. When the bucket
// is empty it reports how long until the next token is available.
func (b *tokenBucket) take(now time.Time, capacity, perSecond float64) (bool, float64, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if elapsed := now.Sub(b.filled).Seconds(); elapsed > 0 {
		b.tokens = math.Min(capacity, b.tokens+elapsed*perSecond)
		b.filled = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true, b.tokens, 0
	}
	wait := time.Duration((1 - b.tokens) / perSecond * float64(time.Second))
	return false, b.tokens, wait
}

type clientLimiter struct {
	capacity  float64
	perSecond float64
	mu        sync.Mutex
	clients   *gocache.Cache
}

func newClientLimiter(cfg RateLimitConfig) *clientLimiter {
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &clientLimiter{
		capacity:  float64(max(cfg.Burst, 1)),
		perSecond: float64(max(cfg.PerMinute, 1)) / 60,
		clients:   gocache.New(ttl, ttl/2),
	}
}

// bucket returns the client's bucket, creating a full one on first sight.
// Every lookup pushes the client's expiry forward.
func (l *clientLimiter) bucket(ip string, now time.Time) *tokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.clients.Get(ip)
	if !ok {
		b = &tokenBucket{tokens: l.capacity, filled: now}
	}
	l.clients.SetDefault(ip, b)
	return b.(*tokenBucket)
}

// RateLimit throttles requests per client IP and reports the budget in
// X-RateLimit-* headers.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	l := newClientLimiter(cfg)
	limit := strconv.Itoa(int(l.capacity))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			ip := utils.ClientIP(r, cfg.TrustProxy)

			ok, left, wait := l.bucket(ip, now).take(now, l.capacity, l.perSecond)
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(math.Max(0, math.Floor(left)))))

			if !ok {
				if cfg.Rejected != nil {
					cfg.Rejected.Inc()
				}
				w.Header().Set("Retry-After", strconv.Itoa(max(1, int(math.Ceil(wait.Seconds())))))
				writeJSONError(w, http.StatusTooManyRequests, "too many preview requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
