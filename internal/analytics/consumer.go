package analytics

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	inats "github.com/mentari-platform/mentari/internal/nats"
)

const consumerName = "interaction-persister"

// Consumer listens on the interaction event subject and persists entries to the database.
type Consumer struct {
	store       LogStore
	consumerMgr *inats.ConsumerManager
}

// NewConsumer creates a new interaction event Consumer.
func NewConsumer(store LogStore, consumerMgr *inats.ConsumerManager) *Consumer {
	return &Consumer{
		store:       store,
		consumerMgr: consumerMgr,
	}
}

// Start begins the consume loop. Blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) error {
	consumer, err := c.consumerMgr.EnsureConsumer(ctx, inats.StreamEvents, consumerName, inats.SubjectInteraction)
	if err != nil {
		return err
	}

	slog.Info("interaction consumer started", "consumer", consumerName)
	return inats.Consume(ctx, consumer, consumerName, c.handleEvent)
}

func (c *Consumer) handleEvent(ctx context.Context, msg jetstream.Msg) {
	var event inats.InteractionEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		slog.Error("interaction consumer: unmarshaling event", "error", err)
		// Malformed payloads are terminated, not redelivered.
		_ = msg.Term()
		return
	}

	log := LogFromEvent(event)
	if err := c.store.Insert(ctx, log); err != nil {
		slog.Error("interaction consumer: persisting log", "error", err, "route", event.Route)
		_ = msg.Nak()
		return
	}

	_ = msg.Ack()

	slog.Debug("interaction consumer: persisted event",
		"route", event.Route,
		"user_id", event.UserID,
		"session_id", event.SessionID,
	)
}

// LogFromEvent converts a published interaction event into its table row.
func LogFromEvent(event inats.InteractionEvent) *InteractionLog {
	return &InteractionLog{
		ID:         event.ID,
		UserID:     event.UserID,
		SessionID:  event.SessionID,
		Route:      event.Route,
		Intent:     event.Intent,
		Emotion:    event.Emotion,
		Fallback:   event.Fallback,
		Failed:     event.Failed,
		DurationMS: event.DurationMS,
		CreatedAt:  event.Timestamp,
	}
}
