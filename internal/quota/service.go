package quota

import (
	"context"
	"errors"
	"log/slog"
)

// ErrExceeded is returned by Allow when a learner is over the per-minute limit.
var ErrExceeded = errors.New("message quota exceeded")

// Status reports current usage for display.
type Status struct {
	MessagesUsedMinute  int `json:"messages_used_minute"`
	MessagesLimitMinute int `json:"messages_limit_minute"`
}

// Service enforces the chat message quota. Redis failures allow the message.
type Service struct {
	limiter *Limiter
	limit   int
}

func NewService(limiter *Limiter, messagesPerMinute int) *Service {
	return &Service{limiter: limiter, limit: messagesPerMinute}
}

// Allow counts one message for learner, or returns ErrExceeded.
// A nil Service allows everything.
func (s *Service) Allow(ctx context.Context, learner string) error {
	if s == nil || s.limit <= 0 || learner == "" {
		return nil
	}
	ok, err := s.limiter.Take(ctx, learner, s.limit)
	if err != nil {
		slog.Warn("quota: limiter check failed, allowing message", "error", err, "learner", learner)
		return nil
	}
	if !ok {
		return ErrExceeded
	}
	return nil
}

func (s *Service) Status(ctx context.Context, learner string) (*Status, error) {
	used, err := s.limiter.Used(ctx, learner)
	if err != nil {
		return nil, err
	}
	return &Status{MessagesUsedMinute: used, MessagesLimitMinute: s.limit}, nil
}
