//go:build integration

package questionbank

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentari-platform/mentari/internal/quiz"
	"github.com/mentari-platform/mentari/internal/testutil"
)

func TestPostgresBank_SeedAndRead(t *testing.T) {
	pool := testutil.Postgres(t)
	ctx := context.Background()

	src, err := LoadYAML("../../data/questionbank.yaml")
	require.NoError(t, err)

	res, err := Seed(ctx, pool, src)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Topics)
	assert.Equal(t, 16, res.Questions)

	// Seeding twice replaces rather than duplicates.
	_, err = Seed(ctx, pool, src)
	require.NoError(t, err)

	bank := NewPostgresBank(pool)
	topics, err := bank.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 3)

	ids, err := bank.QuestionIDs(ctx, topics[0].ID)
	require.NoError(t, err)
	assert.Len(t, ids, 6)

	q, err := bank.Question(ctx, ids[0])
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Len(t, q.Choices, 4)
	assert.Equal(t, "Fluorine", q.CorrectChoice().Text)

	missing, err := bank.Question(ctx, -1)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgresAttempts(t *testing.T) {
	pool := testutil.Postgres(t)
	ctx := context.Background()
	store := NewPostgresAttempts(pool)

	now := time.Now().UTC().Truncate(time.Millisecond)
	for i, pct := range []float64{50, 90} {
		require.NoError(t, store.RecordAttempt(ctx, quiz.Attempt{
			ID:              uuid.New(),
			UserID:          "learner",
			TopicID:         1,
			TopicName:       "Atoms",
			ScorePercentage: pct,
			CompletedAt:     now.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := store.ListAttempts(ctx, "learner", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 90.0, got[0].ScorePercentage)
}
