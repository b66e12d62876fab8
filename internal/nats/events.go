package nats

import (
	"time"

	"github.com/google/uuid"
)

// FetchTimeout is the default timeout for batch fetching messages from consumers.
const FetchTimeout = 2 * time.Second

// Stream names.
const (
	StreamMessages = "MENTARI_MESSAGES"
	StreamEvents   = "MENTARI_EVENTS"
)

// Subject constants.
const (
	SubjectInboundMessage  = "mentari.messages.inbound"
	SubjectOutboundMessage = "mentari.messages.outbound"
	SubjectInteraction     = "mentari.events.interaction"
	SubjectQuizAttempt     = "mentari.events.quiz_attempt"
)

// InboundMessage is published when a learner's XMPP message arrives at the component.
type InboundMessage struct {
	ID         string    `json:"id"`
	FromJID    string    `json:"from_jid"`
	ToJID      string    `json:"to_jid"`
	Body       string    `json:"body"`
	StanzaType string    `json:"stanza_type"`
	ReceivedAt time.Time `json:"received_at"`
}

// OutboundMessage is published to send an assistant reply back via XMPP.
type OutboundMessage struct {
	ID        string `json:"id"`
	ToJID     string `json:"to_jid"`
	FromJID   string `json:"from_jid"`
	Body      string `json:"body"`
	InReplyTo string `json:"in_reply_to,omitempty"`
}

// InteractionEvent describes one handled conversation turn.
type InteractionEvent struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	SessionID  string    `json:"session_id"`
	Route      string    `json:"route"`
	Intent     string    `json:"intent"`
	Emotion    string    `json:"emotion"`
	Fallback   bool      `json:"fallback"`
	Failed     bool      `json:"failed"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// QuizAttemptEvent is published when a quiz attempt is recorded.
type QuizAttemptEvent struct {
	AttemptID       uuid.UUID `json:"attempt_id"`
	UserID          string    `json:"user_id"`
	TopicID         int64     `json:"topic_id"`
	TopicName       string    `json:"topic_name"`
	ScorePercentage float64   `json:"score_percentage"`
	CompletedAt     time.Time `json:"completed_at"`
}
