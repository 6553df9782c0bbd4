package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimiter_PerIP(t *testing.T) {
	limiter := NewRateLimiter(1, 2, false)
	h := limiter.Limit(okHandler)

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		h(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2"))
}

func TestRateLimiter_ClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	t.Run("trusted proxy uses forwarded for", func(t *testing.T) {
		assert.Equal(t, "203.0.113.7", NewRateLimiter(1, 1, true).clientIP(req))
	})

	t.Run("untrusted uses remote addr", func(t *testing.T) {
		assert.Equal(t, "192.0.2.1", NewRateLimiter(1, 1, false).clientIP(req))
	})

	t.Run("trusted without header falls back", func(t *testing.T) {
		plain := httptest.NewRequest(http.MethodGet, "/", nil)
		plain.RemoteAddr = "192.0.2.9:5555"
		assert.Equal(t, "192.0.2.9", NewRateLimiter(1, 1, true).clientIP(plain))
	})
}

func TestRateLimiter_IgnoresSpoofedForwardedFor(t *testing.T) {
	limiter := NewRateLimiter(1, 1, false)
	h := limiter.Limit(okHandler)

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		w := httptest.NewRecorder()
		h(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	for _, code := range codes[1:] {
		assert.Equal(t, http.StatusTooManyRequests, code)
	}
	assert.Equal(t, 1, limiter.Len())
}

func TestRateLimiter_Sweep(t *testing.T) {
	now := time.Date(2025, 1, 8, 14, 30, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 1, false)
	limiter.now = func() time.Time { return now }

	limiter.getLimiter("10.0.0.1")
	now = now.Add(5 * time.Minute)
	limiter.getLimiter("10.0.0.2")
	require.Equal(t, 2, limiter.Len())

	assert.Equal(t, 1, limiter.Sweep(time.Minute))
	assert.Equal(t, 1, limiter.Len())

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, limiter.Sweep(time.Minute))
	assert.Equal(t, 0, limiter.Len())
}

func TestCORSMiddleware(t *testing.T) {
	t.Run("explicit origin is echoed with credentials", func(t *testing.T) {
		h := CORSMiddleware([]string{"http://localhost:3000"})(http.HandlerFunc(okHandler))
		req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		h := CORSMiddleware([]string{"http://localhost:3000"})(http.HandlerFunc(okHandler))
		req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		called := false
		h := CORSMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
		req := httptest.NewRequest(http.MethodOptions, "/api/profile", nil)
		req.Header.Set("Origin", "http://any.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.False(t, called)
	})
}

func TestObservabilityMiddleware_RecordsRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	var seen string
	mux.HandleFunc("GET /api/doctors/{id}", func(w http.ResponseWriter, r *http.Request) {
		seen = r.Pattern
		w.WriteHeader(http.StatusTeapot)
	})

	h := ObservabilityMiddleware(nil)(LoggingMiddleware(mux))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/doctors/3", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "GET /api/doctors/{id}", seen)
}
