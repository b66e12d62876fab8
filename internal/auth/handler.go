package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mentari-platform/mentari/internal/api"
	"github.com/mentari-platform/mentari/internal/learners"
)

// LearnerStore is the slice of learners.Service the handlers need.
type LearnerStore interface {
	Create(ctx context.Context, email, passwordHash, displayName string) (*learners.Learner, error)
	GetByEmail(ctx context.Context, email string) (*learners.Learner, error)
	GetByID(ctx context.Context, id uuid.UUID) (*learners.Learner, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type Handler struct {
	authSvc  *Service
	learners LearnerStore
	validate *validator.Validate
}

func NewHandler(authSvc *Service, store LearnerStore) *Handler {
	return &Handler{
		authSvc:  authSvc,
		learners: store,
		validate: validator.New(),
	}
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"omitempty,max=64"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func identityOf(l *learners.Learner) Identity {
	return Identity{UserID: l.ID.String(), Email: l.Email, Name: l.DisplayName}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	exists, err := h.learners.ExistsByEmail(r.Context(), req.Email)
	if err != nil {
		slog.Error("checking email existence", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if exists {
		api.HandleError(w, api.ErrEmailAlreadyExists)
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		slog.Error("hashing password", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	learner, err := h.learners.Create(r.Context(), req.Email, hash, req.DisplayName)
	if err != nil {
		slog.Error("creating learner", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	tokens, err := h.authSvc.GenerateTokens(r.Context(), identityOf(learner))
	if err != nil {
		slog.Error("generating tokens", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusCreated, tokens)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	learner, err := h.learners.GetByEmail(r.Context(), req.Email)
	if err != nil {
		slog.Error("getting learner by email", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if learner == nil {
		api.HandleError(w, api.ErrInvalidCredentials)
		return
	}

	if err := ComparePassword(learner.PasswordHash, req.Password); err != nil {
		api.HandleError(w, api.ErrInvalidCredentials)
		return
	}

	tokens, err := h.authSvc.GenerateTokens(r.Context(), identityOf(learner))
	if err != nil {
		slog.Error("generating tokens", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, tokens)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.HandleError(w, api.ErrBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		api.HandleError(w, api.NewValidationError(err.Error()))
		return
	}

	tokens, err := h.authSvc.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		if !errors.Is(err, ErrTokenRevoked) {
			slog.Warn("refreshing tokens", "error", err)
		}
		api.HandleError(w, api.ErrInvalidToken)
		return
	}

	api.JSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	if err := h.authSvc.Logout(r.Context(), claims.UserID); err != nil {
		slog.Error("logging out", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSONMessage(w, http.StatusOK, "logged out successfully")
}

// Me returns the authenticated learner's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetUserClaims(r.Context())
	if claims == nil {
		api.HandleError(w, api.ErrUnauthorized)
		return
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		api.HandleError(w, api.ErrInvalidToken)
		return
	}
	learner, err := h.learners.GetByID(r.Context(), id)
	if err != nil {
		slog.Error("getting learner by id", "error", err, "user_id", claims.UserID)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if learner == nil {
		api.HandleError(w, api.NewNotFoundError("learner not found"))
		return
	}

	api.JSON(w, http.StatusOK, learner)
}
