package nats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"
)

// maxDeliver bounds redelivery of a message that keeps being Nak'ed.
const maxDeliver = 5

// ConsumerManager handles durable consumer creation and retrieval.
type ConsumerManager struct {
	js jetstream.JetStream
}

// NewConsumerManager creates a new ConsumerManager.
func NewConsumerManager(js jetstream.JetStream) *ConsumerManager {
	return &ConsumerManager{js: js}
}

// EnsureConsumer creates or updates a durable consumer on the given stream.
func (cm *ConsumerManager) EnsureConsumer(ctx context.Context, stream, name, filterSubject string) (jetstream.Consumer, error) {
	cfg := jetstream.ConsumerConfig{
		Durable:       name,
		FilterSubject: filterSubject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    maxDeliver,
	}

	consumer, err := cm.js.CreateOrUpdateConsumer(ctx, stream, cfg)
	if err != nil {
		return nil, fmt.Errorf("ensuring consumer %s on %s: %w", name, stream, err)
	}
	return consumer, nil
}

// Handler processes one fetched message. It must Ack or Nak it.
type Handler func(ctx context.Context, msg jetstream.Msg)

// Consume fetches batches from consumer and hands each message to handle
// until ctx is cancelled.
func Consume(ctx context.Context, consumer jetstream.Consumer, name string, handle Handler) error {
	for {
		msgs, err := consumer.Fetch(10, jetstream.FetchMaxWait(FetchTimeout))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Debug("nats: fetching messages", "consumer", name, "error", err)
			continue
		}

		for msg := range msgs.Messages() {
			handle(ctx, msg)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}
