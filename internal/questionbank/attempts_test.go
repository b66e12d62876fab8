package questionbank

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentari-platform/mentari/internal/database"
	"github.com/mentari-platform/mentari/internal/quiz"
)

func TestSQLiteAttempts(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLiteAttempts(ctx, db)
	require.NoError(t, err)

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, pct := range []float64{40, 60, 80} {
		require.NoError(t, store.RecordAttempt(ctx, quiz.Attempt{
			ID:              uuid.New(),
			UserID:          "learner",
			TopicID:         1,
			TopicName:       "Atoms",
			ScorePercentage: pct,
			CompletedAt:     base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, store.RecordAttempt(ctx, quiz.Attempt{
		ID: uuid.New(), UserID: "someone-else", TopicID: 1, TopicName: "Atoms", ScorePercentage: 100, CompletedAt: base,
	}))

	got, err := store.ListAttempts(ctx, "learner", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 80.0, got[0].ScorePercentage)
	assert.Equal(t, base.Add(2*time.Hour), got[0].CompletedAt)
	assert.Equal(t, 40.0, got[2].ScorePercentage)

	limited, err := store.ListAttempts(ctx, "learner", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	// Schema creation is idempotent.
	_, err = NewSQLiteAttempts(ctx, db)
	require.NoError(t, err)
}
