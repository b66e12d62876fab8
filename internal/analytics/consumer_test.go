package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inats "github.com/mentari-platform/mentari/internal/nats"
)

func TestInteractionEventDeserialization(t *testing.T) {
	event := inats.InteractionEvent{
		ID:         uuid.New(),
		UserID:     "learner-1",
		SessionID:  "sess-1",
		Route:      "quiz_answer",
		Intent:     "quiz_request",
		Emotion:    "neutral",
		DurationMS: 12,
		Timestamp:  time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded inats.InteractionEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, "quiz_answer", decoded.Route)
	assert.Equal(t, int64(12), decoded.DurationMS)
}

func TestLogFromEvent(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	event := inats.InteractionEvent{
		ID:         uuid.New(),
		UserID:     "learner-1",
		SessionID:  "sess-1",
		Route:      "fallback",
		Intent:     "general_inquiry",
		Emotion:    "confused",
		Fallback:   true,
		Failed:     true,
		DurationMS: 40,
		Timestamp:  ts,
	}

	log := LogFromEvent(event)
	assert.Equal(t, event.ID, log.ID)
	assert.Equal(t, "learner-1", log.UserID)
	assert.Equal(t, "sess-1", log.SessionID)
	assert.Equal(t, "fallback", log.Route)
	assert.Equal(t, "confused", log.Emotion)
	assert.True(t, log.Fallback)
	assert.True(t, log.Failed)
	assert.Equal(t, int64(40), log.DurationMS)
	assert.Equal(t, ts, log.CreatedAt)
}
