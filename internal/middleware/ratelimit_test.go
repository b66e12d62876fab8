package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedHandler(t *testing.T, limit, windowSec int) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	rl := NewRateLimiter(client, "auth", limit, windowSec)
	return rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})), mr
}

func login(h http.Handler, remote string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.RemoteAddr = remote
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	h, _ := newLimitedHandler(t, 3, 60)

	for i := range 3 {
		require.Equal(t, http.StatusOK, login(h, "10.0.0.1:12345", nil).Code, "request %d", i+1)
	}

	rec := login(h, "10.0.0.1:12345", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"too many requests"}`, rec.Body.String())

	// Other clients have their own window.
	assert.Equal(t, http.StatusOK, login(h, "10.0.0.2:12345", nil).Code)
}

func TestRateLimiter_RejectedRequestsAreNotCounted(t *testing.T) {
	h, mr := newLimitedHandler(t, 2, 60)

	for range 5 {
		login(h, "10.0.0.1:1", nil)
	}
	members, err := mr.ZMembers("ratelimit:auth:10.0.0.1")
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	h, mr := newLimitedHandler(t, 1, 60)
	mr.Close()

	for range 3 {
		assert.Equal(t, http.StatusOK, login(h, "10.0.0.1:1", nil).Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		remote string
		header http.Header
		want   string
	}{
		{"remote addr", "192.168.1.1:12345", nil, "192.168.1.1"},
		{"remote without port", "192.168.1.1", nil, "192.168.1.1"},
		{"forwarded chain", "10.0.0.1:1", http.Header{"X-Forwarded-For": {"203.0.113.7, 10.0.0.9"}}, "203.0.113.7"},
		{"real ip", "10.0.0.1:1", http.Header{"X-Real-Ip": {"198.51.100.2"}}, "198.51.100.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header[k] = v
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
