package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// Publisher writes typed messages to JetStream. Every message carries a
// Nats-Msg-Id so the stream drops duplicates inside its dedup window.
type Publisher struct {
	js jetstream.JetStream
}

func NewPublisher(js jetstream.JetStream) *Publisher {
	return &Publisher{js: js}
}

// PublishInboundMessage hands a learner's XMPP message to the gateway.
func (p *Publisher) PublishInboundMessage(ctx context.Context, msg InboundMessage) error {
	return p.publish(ctx, SubjectInboundMessage, msg.ID, msg)
}

// PublishOutboundMessage queues a tutor reply for XMPP delivery.
func (p *Publisher) PublishOutboundMessage(ctx context.Context, msg OutboundMessage) error {
	return p.publish(ctx, SubjectOutboundMessage, msg.ID, msg)
}

func (p *Publisher) PublishInteraction(ctx context.Context, event InteractionEvent) error {
	return p.publish(ctx, SubjectInteraction, event.ID.String(), event)
}

func (p *Publisher) PublishQuizAttempt(ctx context.Context, event QuizAttemptEvent) error {
	return p.publish(ctx, SubjectQuizAttempt, event.AttemptID.String(), event)
}

func (p *Publisher) publish(ctx context.Context, subject, msgID string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", subject, err)
	}

	var opts []jetstream.PublishOpt
	if msgID != "" {
		opts = append(opts, jetstream.WithMsgID(subject+":"+msgID))
	}
	if _, err := p.js.Publish(ctx, subject, payload, opts...); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}
