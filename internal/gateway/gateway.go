// Package gateway connects the NATS message stream to the brain: inbound
// XMPP messages become brain turns and the envelopes go back out as
// plain-text replies.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mentari-platform/mentari/internal/brain"
	"github.com/mentari-platform/mentari/internal/metrics"
	inats "github.com/mentari-platform/mentari/internal/nats"
	"github.com/mentari-platform/mentari/internal/quota"
	ixmpp "github.com/mentari-platform/mentari/internal/xmpp"
)

const consumerName = "gateway"

const quotaReply = "You're sending messages faster than I can keep up. Please wait a moment and try again."

// Responder produces one envelope per message.
type Responder interface {
	Respond(ctx context.Context, req brain.Request) brain.Envelope
}

// Limiter admits or rejects a message for a learner key.
type Limiter interface {
	Allow(ctx context.Context, learner string) error
}

// OutboundPublisher sends replies back toward the XMPP relay.
type OutboundPublisher interface {
	PublishOutboundMessage(ctx context.Context, msg inats.OutboundMessage) error
}

// Gateway consumes inbound messages, asks the brain, and publishes replies.
type Gateway struct {
	brain       Responder
	quota       Limiter
	publisher   OutboundPublisher
	consumerMgr *inats.ConsumerManager
}

// New creates a Gateway. limiter may be nil.
func New(responder Responder, limiter Limiter, publisher OutboundPublisher, consumerMgr *inats.ConsumerManager) *Gateway {
	return &Gateway{
		brain:       responder,
		quota:       limiter,
		publisher:   publisher,
		consumerMgr: consumerMgr,
	}
}

// Start begins the gateway event loop. Blocks until ctx is cancelled.
func (g *Gateway) Start(ctx context.Context) error {
	consumer, err := g.consumerMgr.EnsureConsumer(ctx, inats.StreamMessages, consumerName, inats.SubjectInboundMessage)
	if err != nil {
		return err
	}

	slog.Info("gateway started", "consumer", consumerName)
	return inats.Consume(ctx, consumer, consumerName, g.processMessage)
}

func (g *Gateway) processMessage(ctx context.Context, msg jetstream.Msg) {
	var inbound inats.InboundMessage
	if err := json.Unmarshal(msg.Data(), &inbound); err != nil {
		slog.Error("gateway: unmarshaling inbound message", "error", err)
		metrics.GatewayMessagesTotal.WithLabelValues("malformed").Inc()
		_ = msg.Term()
		return
	}

	reply, status := g.Handle(ctx, inbound)
	if err := g.publisher.PublishOutboundMessage(ctx, reply); err != nil {
		slog.Error("gateway: publishing reply", "error", err, "to", reply.ToJID)
		metrics.GatewayMessagesTotal.WithLabelValues("publish_failed").Inc()
		_ = msg.Nak()
		return
	}

	metrics.GatewayMessagesTotal.WithLabelValues(status).Inc()
	_ = msg.Ack()
}

// Handle turns one inbound message into its reply. status labels the
// outcome for metrics.
func (g *Gateway) Handle(ctx context.Context, inbound inats.InboundMessage) (inats.OutboundMessage, string) {
	userID, name := ixmpp.Learner(inbound.FromJID)
	req := brain.Request{
		Message:     inbound.Body,
		UserID:      userID,
		SessionID:   ixmpp.BareJID(inbound.FromJID),
		DisplayName: name,
	}

	slog.Debug("gateway processing message",
		"id", inbound.ID,
		"from", inbound.FromJID,
		"to", inbound.ToJID,
	)

	reply := inats.OutboundMessage{
		ID:        uuid.New().String(),
		ToJID:     inbound.FromJID,
		FromJID:   inbound.ToJID,
		InReplyTo: inbound.ID,
	}

	if g.quota != nil {
		if err := g.quota.Allow(ctx, userID); errors.Is(err, quota.ErrExceeded) {
			reply.Body = quotaReply
			return reply, "throttled"
		}
	}

	reply.Body = PlainText(g.brain.Respond(ctx, req))
	return reply, "ok"
}
