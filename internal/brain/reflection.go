package brain

import (
	"context"
	"fmt"
	"strings"

	"github.com/mentari-platform/mentari/internal/reflection"
)

const listedReflections = 5

func (b *Brain) handleReflection(ctx context.Context, t *turn) (Envelope, error) {
	req := reflection.ParseRequest(t.text)
	if req.Kind == reflection.KindPrompt {
		return reflectionPrompt(), nil
	}
	if req.Kind == reflection.KindSpace {
		return Envelope{
			Text: "💭 Reflection Space\n" +
				"Your thoughts are valuable! Start a message with \"journal:\" and I'll keep it in your private journal.\n" +
				"Try sharing what you're learning or how you're feeling about your studies.",
			Card: helpCard("Reflection prompt", "Show my reflections"),
		}, nil
	}

	if t.req.UserID == "" || b.journal == nil {
		return Envelope{Text: "Please log in to keep a journal. Your reflections are stored privately for your account."}, nil
	}

	switch req.Kind {
	case reflection.KindSave:
		entry := &reflection.Entry{UserID: t.req.UserID, Body: req.Body, CreatedAt: b.now().UTC()}
		if err := b.journal.Save(ctx, entry); err != nil {
			return Envelope{}, fmt.Errorf("saving reflection: %w", err)
		}
		return Envelope{
			Text: "📝 Saved to your journal. Thank you for taking a moment to reflect!",
			Card: helpCard("Show my reflections", "Reflection prompt"),
		}, nil

	default:
		entries, err := b.journal.Recent(ctx, t.req.UserID, listedReflections)
		if err != nil {
			return Envelope{}, fmt.Errorf("listing reflections: %w", err)
		}
		if len(entries) == 0 {
			return Envelope{Text: "You haven't saved any reflections yet. Try sharing what's on your mind!"}, nil
		}
		return recentReflections(entries), nil
	}
}

func reflectionPrompt() Envelope {
	return Envelope{
		Text: "💭 Reflection Prompt:\n" + reflection.RandomPrompt(),
		Card: helpCard("Reflection prompt", "Show my reflections"),
	}
}

func recentReflections(entries []reflection.Entry) Envelope {
	var sb strings.Builder
	sb.WriteString("📝 Your Recent Reflections:")
	items := make([]ReflectionItem, len(entries))
	for i, e := range entries {
		fmt.Fprintf(&sb, "\n%s: %s", e.CreatedAt.Format("Jan 02, 2006 at 03:04 PM"), e.Body)
		items[i] = ReflectionItem{Body: e.Body, Prompt: e.Prompt, CreatedAt: e.CreatedAt}
	}
	return Envelope{Text: sb.String(), Card: &ReflectionsCard{Type: CardReflections, Entries: items}}
}
