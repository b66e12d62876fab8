package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"app error", ErrQuotaExceeded, http.StatusTooManyRequests, `{"error":"message quota exceeded, please slow down"}`},
		{"wrapped app error", fmt.Errorf("loading: %w", NewNotFoundError("learner not found")), http.StatusNotFound, `{"error":"learner not found"}`},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}
