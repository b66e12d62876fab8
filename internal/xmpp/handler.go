package xmpp

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gosrc.io/xmpp"
	"gosrc.io/xmpp/stanza"

	inats "github.com/mentari-platform/mentari/internal/nats"
)

// UserPrefix namespaces XMPP learners in the learning context store.
const UserPrefix = "xmpp:"

// InboundPublisher hands learner messages to the gateway.
type InboundPublisher interface {
	PublishInboundMessage(ctx context.Context, msg inats.InboundMessage) error
}

// Handler processes incoming XMPP stanzas and bridges them to NATS.
type Handler struct {
	publisher InboundPublisher
	now       func() time.Time
}

// NewHandler creates a new XMPP stanza handler.
func NewHandler(publisher InboundPublisher) *Handler {
	return &Handler{publisher: publisher, now: time.Now}
}

// HandleMessage publishes chat messages from learners to NATS.
func (h *Handler) HandleMessage(s xmpp.Sender, p stanza.Packet) {
	msg, ok := p.(stanza.Message)
	if !ok {
		return
	}

	inbound, ok := h.inbound(msg)
	if !ok {
		return
	}

	slog.Debug("XMPP message received",
		"from", msg.From,
		"to", msg.To,
		"type", string(msg.Type),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.publisher.PublishInboundMessage(ctx, inbound); err != nil {
		slog.Error("publishing inbound message", "error", err, "from", msg.From)
		h.sendError(s, msg.From, msg.To, "Sorry, I couldn't take your message right now. Please try again.")
	}
}

// inbound converts a stanza; errors, groupchat and empty bodies are dropped.
func (h *Handler) inbound(msg stanza.Message) (inats.InboundMessage, bool) {
	if strings.TrimSpace(msg.Body) == "" || msg.From == "" {
		return inats.InboundMessage{}, false
	}
	switch msg.Type {
	case stanza.MessageTypeError, stanza.MessageTypeGroupchat:
		return inats.InboundMessage{}, false
	}

	return inats.InboundMessage{
		ID:         uuid.New().String(),
		FromJID:    msg.From,
		ToJID:      msg.To,
		Body:       msg.Body,
		StanzaType: string(msg.Type),
		ReceivedAt: h.now().UTC(),
	}, true
}

// HandlePresence auto-approves subscription requests so learners can add
// the tutor to their roster.
func (h *Handler) HandlePresence(s xmpp.Sender, p stanza.Packet) {
	pres, ok := p.(stanza.Presence)
	if !ok {
		return
	}

	slog.Debug("XMPP presence received",
		"from", pres.From,
		"to", pres.To,
		"type", string(pres.Type),
	)

	if pres.Type == stanza.PresenceTypeSubscribe {
		reply := stanza.Presence{
			Attrs: stanza.Attrs{
				From: pres.To,
				To:   pres.From,
				Type: stanza.PresenceTypeSubscribed,
			},
		}
		if err := s.Send(reply); err != nil {
			slog.Error("sending presence subscribed reply", "error", err)
		}
	}
}

// HandleIQ processes incoming <iq> stanzas.
func (h *Handler) HandleIQ(_ xmpp.Sender, p stanza.Packet) {
	iq, ok := p.(*stanza.IQ)
	if !ok {
		return
	}
	slog.Debug("XMPP IQ received", "from", iq.From, "to", iq.To, "type", string(iq.Type))
}

// SendOutboundMessage sends a <message> stanza via XMPP.
func (h *Handler) SendOutboundMessage(s xmpp.Sender, outbound inats.OutboundMessage) error {
	msg := stanza.Message{
		Attrs: stanza.Attrs{
			From: outbound.FromJID,
			To:   outbound.ToJID,
			Type: stanza.MessageTypeChat,
			Id:   outbound.ID,
		},
		Body: outbound.Body,
	}
	return s.Send(msg)
}

func (h *Handler) sendError(s xmpp.Sender, to, from, body string) {
	msg := stanza.Message{
		Attrs: stanza.Attrs{
			From: from,
			To:   to,
			Type: stanza.MessageTypeChat,
		},
		Body: body,
	}
	if err := s.Send(msg); err != nil {
		slog.Error("sending error message", "error", err)
	}
}

// BareJID strips the resource: "ana@mentari.local/phone" -> "ana@mentari.local".
func BareJID(jid string) string {
	bare, _, _ := strings.Cut(jid, "/")
	return strings.ToLower(bare)
}

// Learner derives the user id and display name the brain sees for a JID.
// Every resource of one account shares a learning context.
func Learner(jid string) (userID, displayName string) {
	bare := BareJID(jid)
	if bare == "" {
		return "", ""
	}
	local, _, found := strings.Cut(bare, "@")
	if !found {
		local = ""
	}
	return UserPrefix + bare, local
}
