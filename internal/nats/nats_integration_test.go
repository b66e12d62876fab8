//go:build integration

package nats_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inats "github.com/mentari-platform/mentari/internal/nats"
	"github.com/mentari-platform/mentari/internal/testutil"
)

func TestClient_StreamsAndDedup(t *testing.T) {
	ctx := context.Background()
	client := testutil.NATS(t)
	require.True(t, client.Healthy())

	msgs, err := client.JetStream().Stream(ctx, inats.StreamMessages)
	require.NoError(t, err)
	info, err := msgs.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, jetstream.WorkQueuePolicy, info.Config.Retention)

	pub := inats.NewPublisher(client.JetStream())
	event := inats.QuizAttemptEvent{AttemptID: uuid.New(), UserID: "learner", ScorePercentage: 80}
	require.NoError(t, pub.PublishQuizAttempt(ctx, event))
	require.NoError(t, pub.PublishQuizAttempt(ctx, event))

	events, err := client.JetStream().Stream(ctx, inats.StreamEvents)
	require.NoError(t, err)
	info, err = events.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.State.Msgs)
}

func TestConsume_DeliversUntilCancelled(t *testing.T) {
	client := testutil.NATS(t)
	mgr := inats.NewConsumerManager(client.JetStream())
	pub := inats.NewPublisher(client.JetStream())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer, err := mgr.EnsureConsumer(ctx, inats.StreamEvents, "test-interactions", inats.SubjectInteraction)
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		seen  []string
		done  = make(chan error, 1)
		event = inats.InteractionEvent{ID: uuid.New(), UserID: "learner", Route: "greeting"}
	)
	go func() {
		done <- inats.Consume(ctx, consumer, "test-interactions", func(_ context.Context, msg jetstream.Msg) {
			var e inats.InteractionEvent
			if json.Unmarshal(msg.Data(), &e) == nil {
				mu.Lock()
				seen = append(seen, e.Route)
				mu.Unlock()
			}
			_ = msg.Ack()
		})
	}()

	require.NoError(t, pub.PublishInteraction(ctx, event))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	}, 10*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * inats.FetchTimeout):
		t.Fatal("Consume did not return after cancel")
	}
}
