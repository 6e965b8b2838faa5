// AngelaMos | 2026
// cors_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artemiscap/dashboard-api/internal/config"
)

func corsTestConfig(origins []string, relaxed bool) config.CORSConfig {
	return config.CORSConfig{
		AllowedOrigins:  origins,
		AllowedMethods:  []string{"POST", "OPTIONS"},
		AllowedHeaders:  []string{"Content-Type", "X-Dashboard-Credential"},
		MaxAge:          300,
		RelaxedMatching: relaxed,
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	reached := false
	handler := CORS(corsTestConfig([]string{"app.example.com"}, false))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
		}),
	)

	// Preflight passes even from an origin outside the allow-list; it
	// carries no credentials and must not be blocked before the browser can
	// learn the policy.
	req := httptest.NewRequest(http.MethodOptions, "/v1/data/read", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, reached)
	assert.Equal(
		t,
		"https://evil.example.net",
		rec.Header().Get("Access-Control-Allow-Origin"),
	)
	assert.Equal(t, "300", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORSDisallowedOriginRejected(t *testing.T) {
	handler := CORS(corsTestConfig([]string{"app.example.com"}, false))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/v1/data/read", nil)
	req.Header.Set("Origin", "https://evil.example.net")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCORSAllowedOriginPasses(t *testing.T) {
	handler := CORS(corsTestConfig([]string{"app.example.com"}, false))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/v1/data/read", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(
		t,
		"https://app.example.com",
		rec.Header().Get("Access-Control-Allow-Origin"),
	)
}

func TestCORSNoOriginHeaderPasses(t *testing.T) {
	handler := CORS(corsTestConfig([]string{"app.example.com"}, false))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	// Same-origin and non-browser callers send no Origin header.
	req := httptest.NewRequest(http.MethodPost, "/v1/data/read", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		relaxed bool
		want    bool
	}{
		{
			name:    "empty allow-list permits everything",
			origin:  "https://anything.example.net",
			allowed: nil,
			want:    true,
		},
		{
			name:    "exact host match",
			origin:  "https://app.example.com",
			allowed: []string{"app.example.com"},
			want:    true,
		},
		{
			name:    "host match ignores port",
			origin:  "http://localhost:3000",
			allowed: []string{"localhost"},
			want:    true,
		},
		{
			name:    "subdomain is not exact match",
			origin:  "https://api.app.example.com",
			allowed: []string{"app.example.com"},
			want:    false,
		},
		{
			name:    "relaxed containment admits port variants",
			origin:  "http://localhost:5173",
			allowed: []string{"localhost:3000", "localhost:5173"},
			relaxed: true,
			want:    true,
		},
		{
			name:    "relaxed containment admits subdomains",
			origin:  "https://staging.app.example.com",
			allowed: []string{"app.example.com"},
			relaxed: true,
			want:    true,
		},
		{
			name:    "relaxed still rejects unrelated origins",
			origin:  "https://evil.example.net",
			allowed: []string{"app.example.com"},
			relaxed: true,
			want:    false,
		},
		{
			name:    "full origin entries work in exact mode",
			origin:  "https://app.example.com",
			allowed: []string{"https://app.example.com"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := originAllowed(tt.origin, tt.allowed, tt.relaxed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://app.example.com", "app.example.com"},
		{"http://localhost:3000", "localhost"},
		{"localhost:3000", "localhost"},
		{"App.Example.COM", "app.example.com"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, hostOf(tt.in), "hostOf(%q)", tt.in)
	}
}
