package httpx

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/brightforge/sitepanel/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig describes a token-bucket profile applied per client key.
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	Burst             int
}

// Endpoint profiles. Each can be tuned at startup through
// RATELIMIT_{PROFILE}_{REQUESTS|WINDOW_SEC|BURST} environment variables.
var (
	// StrictLimit guards credential endpoints against brute force.
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit covers authenticated session operations.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	// LenientLimit covers read-heavy dashboard traffic.
	LenientLimit = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
)

func init() {
	StrictLimit = ParseRateLimitFromEnv("STRICT", StrictLimit)
	ModerateLimit = ParseRateLimitFromEnv("MODERATE", ModerateLimit)
	LenientLimit = ParseRateLimitFromEnv("LENIENT", LenientLimit)
}

// ParseRateLimitFromEnv overlays RATELIMIT_{prefix}_* environment variables
// on top of def. Unset or unparsable values keep the default.
func ParseRateLimitFromEnv(prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := def

	if n, err := strconv.Atoi(os.Getenv("RATELIMIT_" + prefix + "_REQUESTS")); err == nil && n > 0 {
		cfg.RequestsPerWindow = n
	}
	if n, err := strconv.Atoi(os.Getenv("RATELIMIT_" + prefix + "_WINDOW_SEC")); err == nil && n > 0 {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, err := strconv.Atoi(os.Getenv("RATELIMIT_" + prefix + "_BURST")); err == nil && n > 0 {
		cfg.Burst = n
	}

	return cfg
}

// KeyExtractor groups requests into rate-limit buckets, typically by client
// IP or by authenticated user.
type KeyExtractor func(*http.Request) string

// IPKeyExtractor resolves the client address, preferring the first hop of
// X-Forwarded-For, then X-Real-IP, then the socket peer.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// UserIDKeyExtractor returns the authenticated user id from the request
// context, or "" for anonymous requests.
func UserIDKeyExtractor(r *http.Request) string {
	userID, _ := r.Context().Value(CtxKeyUserID).(string)
	return userID
}

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// keyedLimiter holds one token bucket per key and evicts buckets that have
// been idle long enough to have fully refilled.
type keyedLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	swept   time.Time
}

func newKeyedLimiter(cfg RateLimitConfig) *keyedLimiter {
	return &keyedLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
		burst:   cfg.Burst,
		swept:   time.Now(),
	}
}

func (kl *keyedLimiter) allow(key string) (bool, time.Duration) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	now := time.Now()
	entry, ok := kl.entries[key]
	if !ok {
		entry = &limiterEntry{bucket: rate.NewLimiter(kl.limit, kl.burst)}
		kl.entries[key] = entry
	}
	entry.lastSeen = now

	kl.sweepLocked(now)

	if entry.bucket.Allow() {
		return true, 0
	}

	res := entry.bucket.Reserve()
	wait := res.Delay()
	res.Cancel()
	return false, wait
}

func (kl *keyedLimiter) sweepLocked(now time.Time) {
	if now.Sub(kl.swept) < limiterIdleTTL {
		return
	}
	kl.swept = now

	for key, entry := range kl.entries {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(kl.entries, key)
		}
	}
}

// RateLimitMiddleware applies cfg per key produced by extract. Requests the
// extractor cannot key are allowed through.
func RateLimitMiddleware(cfg RateLimitConfig, extract KeyExtractor) Middleware {
	kl := newKeyedLimiter(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := extract(r)
			if key == "" {
				slogx.FromContext(r.Context()).Warn("rate limit key unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := kl.allow(key)
			if !ok {
				retryAfter := max(int(wait.Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error": "too many requests",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP buckets requests by client address.
func RateLimitByIP(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, IPKeyExtractor)
}

// RateLimitByUser buckets requests by address plus authenticated user, so a
// shared NAT does not let one user starve another.
func RateLimitByUser(cfg RateLimitConfig) Middleware {
	return RateLimitMiddleware(cfg, func(r *http.Request) string {
		ip := IPKeyExtractor(r)
		if uid := UserIDKeyExtractor(r); uid != "" {
			return ip + ":" + uid
		}
		return ip
	})
}
