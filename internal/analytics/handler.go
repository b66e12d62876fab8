package analytics

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mentari-platform/mentari/internal/api"
	"github.com/mentari-platform/mentari/internal/auth"
)

// Reporter is satisfied by *Service.
type Reporter interface {
	Stats(ctx context.Context, userID string) (*Stats, error)
}

// Handler serves the progress report over HTTP.
type Handler struct {
	reports Reporter
}

func NewHandler(reports Reporter) *Handler {
	return &Handler{reports: reports}
}

// Progress returns the authenticated learner's progress report.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	stats, err := h.reports.Stats(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("building progress report", "error", err, "user_id", claims.UserID)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, stats)
}
