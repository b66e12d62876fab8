package questionbank

import (
	"log/slog"
	"net/http"

	"github.com/mentari-platform/mentari/internal/api"
	"github.com/mentari-platform/mentari/internal/quiz"
)

type Handler struct {
	bank quiz.Bank
}

func NewHandler(bank quiz.Bank) *Handler {
	return &Handler{bank: bank}
}

// Topics lists the quiz topics learners can pick from.
func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.bank.ListTopics(r.Context())
	if err != nil {
		slog.Error("listing topics", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}
	if topics == nil {
		topics = []quiz.Topic{}
	}
	api.JSON(w, http.StatusOK, topics)
}
