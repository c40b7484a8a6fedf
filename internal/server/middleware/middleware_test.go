package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth(t *testing.T) {
	h := Auth("secret-key")(okHandler())

	tests := []struct {
		name     string
		header   string
		value    string
		wantCode int
	}{
		{"bearer token", "Authorization", "Bearer secret-key", http.StatusOK},
		{"api key header", "X-API-Key", "secret-key", http.StatusOK},
		{"wrong token", "Authorization", "Bearer nope", http.StatusUnauthorized},
		{"missing token", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/quote/GOLD", nil)
			if tt.header != "" {
				r.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestAuth_EmptyKeyDisables(t *testing.T) {
	h := Auth("")(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/api/quote/GOLD", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

// fixedLimiter allows a fixed number of requests regardless of key.
type fixedLimiter struct {
	remaining int
	err       error
	keys      []string
}

func (f *fixedLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return false, f.err
	}
	if f.remaining <= 0 {
		return false, nil
	}
	f.remaining--
	return true, nil
}

func (f *fixedLimiter) Wait(ctx context.Context, key string) error { return nil }

func TestRateLimit(t *testing.T) {
	limiter := &fixedLimiter{remaining: 1}
	h := RateLimit(limiter, 1, time.Minute)(okHandler())

	r := httptest.NewRequest(http.MethodPost, "/webhook/tradingview/s", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	require.Len(t, limiter.keys, 2)
	assert.Equal(t, "api:10.0.0.1", limiter.keys[0], "keyed by the client IP")
}

func TestRateLimit_ForwardedForWins(t *testing.T) {
	limiter := &fixedLimiter{remaining: 1}
	h := RateLimit(limiter, 1, time.Minute)(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Len(t, limiter.keys, 1)
	assert.Equal(t, "api:203.0.113.7", limiter.keys[0])
}

func TestRateLimit_FailsOpen(t *testing.T) {
	limiter := &fixedLimiter{err: context.DeadlineExceeded}
	h := RateLimit(limiter, 1, time.Minute)(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code, "limiter errors never block traffic")
}

func TestRateLimit_NilLimiterPassesThrough(t *testing.T) {
	h := RateLimit(nil, 1, time.Minute)(okHandler())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
