package xmpp

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"
	"gosrc.io/xmpp"

	inats "github.com/mentari-platform/mentari/internal/nats"
)

const relayConsumer = "outbound-relay"

// OutboundRelay consumes tutor replies from NATS and sends them via XMPP.
type OutboundRelay struct {
	handler     *Handler
	sender      xmpp.Sender
	consumerMgr *inats.ConsumerManager
}

// NewOutboundRelay creates a new OutboundRelay.
func NewOutboundRelay(handler *Handler, sender xmpp.Sender, consumerMgr *inats.ConsumerManager) *OutboundRelay {
	return &OutboundRelay{
		handler:     handler,
		sender:      sender,
		consumerMgr: consumerMgr,
	}
}

// Start blocks, relaying replies until ctx is cancelled.
func (r *OutboundRelay) Start(ctx context.Context) error {
	consumer, err := r.consumerMgr.EnsureConsumer(ctx, inats.StreamMessages, relayConsumer, inats.SubjectOutboundMessage)
	if err != nil {
		return err
	}

	slog.Info("outbound relay started", "consumer", relayConsumer)
	return inats.Consume(ctx, consumer, relayConsumer, r.relay)
}

func (r *OutboundRelay) relay(_ context.Context, msg jetstream.Msg) {
	var outbound inats.OutboundMessage
	if err := json.Unmarshal(msg.Data(), &outbound); err != nil {
		slog.Error("unmarshaling outbound message", "error", err)
		_ = msg.Term()
		return
	}

	if err := r.handler.SendOutboundMessage(r.sender, outbound); err != nil {
		slog.Error("sending outbound XMPP message", "error", err, "to", outbound.ToJID)
		_ = msg.Nak()
		return
	}

	slog.Debug("sent outbound XMPP message", "to", outbound.ToJID, "in_reply_to", outbound.InReplyTo)
	_ = msg.Ack()
}
