package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mentari-platform/mentari/internal/quiz"
)

const (
	activityWindow = 30 * 24 * time.Hour
	attemptWindow  = 200
)

// Service assembles progress reports.
type Service struct {
	attempts quiz.AttemptLister
	logs     LogStore
	now      func() time.Time
}

// NewService creates a Service. logs may be nil, in which case activity is
// reported as empty.
func NewService(attempts quiz.AttemptLister, logs LogStore) *Service {
	return &Service{attempts: attempts, logs: logs, now: time.Now}
}

// Stats builds the full report for userID. Attempt lookup failures are
// returned; activity lookup failures degrade to an empty activity section.
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	attempts, err := s.attempts.ListAttempts(ctx, userID, attemptWindow)
	if err != nil {
		return nil, fmt.Errorf("listing attempts for stats: %w", err)
	}

	now := s.now()
	var activity Activity
	if s.logs != nil {
		stamps, err := s.logs.ActivitySince(ctx, userID, now.Add(-activityWindow))
		if err != nil {
			slog.Warn("analytics: failed to load activity", "error", err, "user_id", userID)
		} else {
			activity = ComputeActivity(stamps, now)
		}
	}

	perf := ComputePerformance(attempts)
	patterns := ComputePatterns(perf)
	return &Stats{
		Performance:     perf,
		Activity:        activity,
		Patterns:        patterns,
		Recommendations: Recommend(perf, activity, patterns),
	}, nil
}
