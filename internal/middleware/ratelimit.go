// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/artemiscap/dashboard-api/internal/core"
	"github.com/artemiscap/dashboard-api/internal/ratelimit"
)

type RateLimitConfig struct {
	Limit     ratelimit.Limit
	Store     ratelimit.Store
	KeyPrefix string
	FailOpen  bool
	KeyFunc   func(*http.Request) string
}

// RateLimit enforces a fixed budget keyed by caller identity. Preflight
// requests bypass the budget entirely. When the store errors, FailOpen
// decides between letting traffic through and shedding it.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := cfg.KeyPrefix + cfg.KeyFunc(r)

			res, err := cfg.Store.Allow(r.Context(), key, cfg.Limit)
			if err != nil {
				if cfg.FailOpen {
					slog.Warn("rate limiter error, failing open",
						"error", err,
						"key", key,
					)
					next.ServeHTTP(w, r)
					return
				}
				http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
				return
			}

			setRateLimitHeaders(w, res, cfg.Limit)

			if !res.Allowed {
				retryAfter := int(res.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				core.JSONError(w, core.RateLimitedError(retryAfter))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP derives the caller identity for rate-limit keying: the nearest
// forwarded-for hop, then X-Real-IP, then the connection address. Callers
// with no derivable address all share one "unknown" bucket.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[len(ips)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if ip == "" {
		return "unknown"
	}

	return ip
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	res *ratelimit.Result,
	limit ratelimit.Limit,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))

	windowSecs := int(limit.Period.Seconds())
	h.Set("RateLimit-Policy", fmt.Sprintf(`%d;w=%d`, limit.Rate, windowSecs))
	h.Set(
		"RateLimit",
		fmt.Sprintf(`%d;t=%d`, res.Remaining, int(res.ResetAfter.Seconds())),
	)
}
