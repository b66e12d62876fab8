package questionbank

import (
	"context"
	"log/slog"

	inats "github.com/mentari-platform/mentari/internal/nats"
	"github.com/mentari-platform/mentari/internal/quiz"
)

type AttemptPublisher interface {
	PublishQuizAttempt(ctx context.Context, event inats.QuizAttemptEvent) error
}

type announcingAttempts struct {
	AttemptStore
	pub AttemptPublisher
}

// Announcing publishes a quiz attempt event after each attempt is stored.
// A failed publish is logged; the attempt stays recorded.
func Announcing(store AttemptStore, pub AttemptPublisher) AttemptStore {
	return &announcingAttempts{AttemptStore: store, pub: pub}
}

func (a *announcingAttempts) RecordAttempt(ctx context.Context, at quiz.Attempt) error {
	if err := a.AttemptStore.RecordAttempt(ctx, at); err != nil {
		return err
	}
	event := inats.QuizAttemptEvent{
		AttemptID:       at.ID,
		UserID:          at.UserID,
		TopicID:         at.TopicID,
		TopicName:       at.TopicName,
		ScorePercentage: at.ScorePercentage,
		CompletedAt:     at.CompletedAt,
	}
	if err := a.pub.PublishQuizAttempt(ctx, event); err != nil {
		slog.Warn("failed to publish quiz attempt", "error", err, "attempt_id", at.ID, "user_id", at.UserID)
	}
	return nil
}
