package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/progress", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestCORSOptions(t *testing.T) {
	opts := CORS(nil)
	assert.Equal(t, []string{"http://localhost:3000"}, opts.AllowedOrigins)
	assert.True(t, opts.AllowCredentials)
	assert.Contains(t, opts.AllowedHeaders, "X-Session-ID")

	assert.False(t, CORS([]string{"*"}).AllowCredentials)
}
