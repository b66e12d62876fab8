package gateway

import (
	"strings"

	"github.com/mentari-platform/mentari/internal/brain"
)

// PlainText flattens an envelope for text-only transports. Cards that
// carry suggestions or actions become a trailing "Try:" line; the rest are
// already described by the text.
func PlainText(env brain.Envelope) string {
	var hints []string
	switch c := env.Card.(type) {
	case *brain.HelpCard:
		hints = c.Suggestions
	case *brain.EncouragementCard:
		hints = c.Suggestions
	case *brain.ActionsCard:
		for _, a := range c.Actions {
			if a.Action != "" {
				hints = append(hints, a.Action)
			}
		}
	}

	text := strings.TrimSpace(env.Text)
	if len(hints) == 0 {
		return text
	}
	return text + "\n\nTry: " + quoteAll(hints)
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "\"" + s + "\""
	}
	return strings.Join(quoted, ", ")
}
