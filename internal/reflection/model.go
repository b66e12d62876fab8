// Package reflection keeps the learner's private study journal. Entry
// bodies are encrypted at rest.
package reflection

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one journal entry in plaintext.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Prompt    string    `json:"prompt,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists entries. Implementations encrypt Body.
type Store interface {
	Save(ctx context.Context, e *Entry) error
	Recent(ctx context.Context, userID string, limit int) ([]Entry, error)
}

// Prompts are offered when a learner wants something to reflect on.
var Prompts = []string{
	"What did you learn today that surprised you?",
	"How do you feel about your progress this week?",
	"What topic would you like to explore more deeply?",
	"What study strategy has been working well for you?",
}

// RandomPrompt picks one of Prompts.
func RandomPrompt() string {
	return Prompts[rand.IntN(len(Prompts))]
}

// Request kinds.
const (
	KindSave   = "save"
	KindList   = "list"
	KindPrompt = "prompt"
	KindSpace  = "space"
)

// Triggers tells the router that a message is about reflection.
var Triggers = []string{"reflect", "journal", "feeling", "thinking about", "recent reflections", "my reflections"}

var (
	listPhrases   = []string{"recent reflections", "my reflections", "show reflections", "show my journal"}
	promptPhrases = []string{"reflection prompt", "what to reflect on", "reflection help", "give me a prompt"}
	savePrefixes  = []string{"journal:", "reflect:", "reflection:", "dear journal,", "note to self:"}
)

// Request is a parsed reflection ask. Body is set for KindSave.
type Request struct {
	Kind string
	Body string
}

// ParseRequest classifies a reflection message. An entry is saved only
// when it is introduced by an explicit prefix such as "journal:".
func ParseRequest(message string) Request {
	trimmed := strings.TrimSpace(message)
	lower := strings.ToLower(trimmed)

	for _, p := range savePrefixes {
		if strings.HasPrefix(lower, p) {
			if body := strings.TrimSpace(trimmed[len(p):]); body != "" {
				return Request{Kind: KindSave, Body: body}
			}
			return Request{Kind: KindPrompt}
		}
	}
	for _, p := range listPhrases {
		if strings.Contains(lower, p) {
			return Request{Kind: KindList}
		}
	}
	for _, p := range promptPhrases {
		if strings.Contains(lower, p) {
			return Request{Kind: KindPrompt}
		}
	}
	return Request{Kind: KindSpace}
}
