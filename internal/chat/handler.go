// Package chat exposes the brain over HTTP: a JSON request/response
// endpoint and a WebSocket stream carrying the same envelopes.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mentari-platform/mentari/internal/api"
	"github.com/mentari-platform/mentari/internal/auth"
	"github.com/mentari-platform/mentari/internal/brain"
	"github.com/mentari-platform/mentari/internal/quota"
)

// Responder produces one envelope per message.
type Responder interface {
	Respond(ctx context.Context, req brain.Request) brain.Envelope
}

// Limiter admits or rejects a message for a learner key.
type Limiter interface {
	Allow(ctx context.Context, learner string) error
}

type Handler struct {
	brain          Responder
	quota          Limiter
	validate       *validator.Validate
	originPatterns []string
}

// NewHandler builds the chat handlers. limiter may be nil.
func NewHandler(responder Responder, limiter Limiter, originPatterns []string) *Handler {
	return &Handler{
		brain:          responder,
		quota:          limiter,
		validate:       validator.New(),
		originPatterns: originPatterns,
	}
}

type MessageRequest struct {
	Message   string `json:"message" validate:"required,max=2000"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=128"`
}

// MessageResponse is an envelope tagged with the session it belongs to.
type MessageResponse struct {
	SessionID string `json:"session_id"`
	brain.Envelope
}

// Message handles POST /api/v1/chat.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	sid, fresh := sessionID(r, req.SessionID)
	if fresh {
		setSessionCookie(w, r, sid)
	}

	breq := brainRequest(r.Context(), req.Message, sid)
	if err := h.admit(r.Context(), breq); err != nil {
		api.HandleError(w, err)
		return
	}

	env := h.brain.Respond(r.Context(), breq)
	api.JSON(w, http.StatusOK, MessageResponse{SessionID: sid, Envelope: env})
}

func brainRequest(ctx context.Context, message, sid string) brain.Request {
	req := brain.Request{Message: message, SessionID: sid}
	if claims := auth.GetUserClaims(ctx); claims != nil {
		req.UserID = claims.UserID
		req.DisplayName = claims.Name
	}
	return req
}

// quotaKey counts authenticated learners by account and anonymous ones by
// session.
func quotaKey(req brain.Request) string {
	if req.UserID != "" {
		return req.UserID
	}
	return "session:" + req.SessionID
}

func (h *Handler) admit(ctx context.Context, req brain.Request) error {
	if h.quota == nil {
		return nil
	}
	err := h.quota.Allow(ctx, quotaKey(req))
	if errors.Is(err, quota.ErrExceeded) {
		slog.Info("chat: quota exceeded", "user_id", req.UserID, "session_id", req.SessionID)
		return api.ErrQuotaExceeded
	}
	return err
}
