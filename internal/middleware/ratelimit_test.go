// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/volunteer-hub/internal/config"
)

func TestRateLimiter_LocalFallback(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit:   PerMinute(2, 2),
		KeyFunc: KeyByIPAndEndpoint,
	})
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if rec.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, rec.Header().Get("Retry-After"))
			assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_SeparateBudgetsPerEndpoint(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit:   PerMinute(1, 1),
		KeyFunc: KeyByIPAndEndpoint,
	})
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/api/auth/login", "/api/auth/register"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "203.0.113.8:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	got := normalizeEndpoint("/api/projects/0b7e8f5c-4a8e-4d25-9d1a-2f8a6f0c1b3e/join")
	assert.Equal(t, "/api/projects/{id}/join", got)
}

func TestLimits(t *testing.T) {
	api, auth := Limits(config.RateLimitConfig{
		Requests:     100,
		Burst:        20,
		Window:       time.Minute,
		AuthRequests: 10,
		AuthBurst:    5,
	})

	assert.Equal(t, 100, api.Rate)
	assert.Equal(t, 10, auth.Rate)
	assert.Equal(t, time.Minute, auth.Period)
}
