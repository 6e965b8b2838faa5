// AngelaMos | 2026
// cors.go

package middleware

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/artemiscap/dashboard-api/internal/config"
	"github.com/artemiscap/dashboard-api/internal/core"
)

// CORS guards requests by origin. Preflight requests are answered
// immediately with permissive headers and bypass every downstream check,
// since they carry no credentials. Non-preflight requests from a
// disallowed origin are rejected outright.
//
// An empty allow-list permits every origin (open mode, intended for
// development). Matching is exact host comparison unless RelaxedMatching
// is set, in which case containment is tolerated for port and subdomain
// variants on local setups.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	allowedMethods := strings.Join(cfg.AllowedMethods, ", ")
	allowedHeaders := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if r.Method == http.MethodOptions {
				writeCORSHeaders(w, origin, cfg, allowedMethods, allowedHeaders, maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if origin != "" {
				if !originAllowed(origin, cfg.AllowedOrigins, cfg.RelaxedMatching) {
					core.JSONError(w, core.ForbiddenError("origin not allowed"))
					return
				}
				writeCORSHeaders(w, origin, cfg, allowedMethods, allowedHeaders, maxAge)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeCORSHeaders(
	w http.ResponseWriter,
	origin string,
	cfg config.CORSConfig,
	allowedMethods, allowedHeaders, maxAge string,
) {
	h := w.Header()

	if origin == "" {
		origin = "*"
	}

	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Methods", allowedMethods)
	h.Set("Access-Control-Allow-Headers", allowedHeaders)
	h.Set("Access-Control-Max-Age", maxAge)
	h.Add("Vary", "Origin")

	if cfg.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}

func originAllowed(origin string, allowed []string, relaxed bool) bool {
	if len(allowed) == 0 {
		return true
	}

	for _, entry := range allowed {
		if relaxed {
			if strings.Contains(origin, entry) ||
				origin == "https://"+entry ||
				origin == "http://"+entry {
				return true
			}
			continue
		}

		if hostOf(origin) == hostOf(entry) {
			return true
		}
	}

	return false
}

// hostOf reduces an origin or allow-list entry to its host, ignoring
// scheme and port. Entries may be bare hosts ("example.com"), host:port
// pairs, or full origins.
func hostOf(s string) string {
	if s == "" {
		return ""
	}

	if !strings.Contains(s, "://") {
		s = "//" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		host := strings.TrimPrefix(s, "//")
		if idx := strings.IndexByte(host, ':'); idx >= 0 {
			host = host[:idx]
		}
		return strings.ToLower(host)
	}

	return strings.ToLower(u.Hostname())
}
