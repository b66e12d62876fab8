package quota

import (
	"log/slog"
	"net/http"

	"github.com/mentari-platform/mentari/internal/api"
	"github.com/mentari-platform/mentari/internal/auth"
)

// Handler provides the quota status endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetQuota returns the authenticated learner's current message usage.
func (h *Handler) GetQuota(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	status, err := h.svc.Status(r.Context(), claims.UserID)
	if err != nil {
		slog.Error("reading quota status", "error", err, "user_id", claims.UserID)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, status)
}
