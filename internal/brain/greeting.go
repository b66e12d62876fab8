package brain

import (
	"context"
	"fmt"
	"strings"
)

func salutation(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	}
	return "Good evening"
}

func (b *Brain) handleGreeting(_ context.Context, t *turn) (Envelope, error) {
	if t.req.UserID == "" {
		return Envelope{
			Text: "Hello! I'm Mentari, your personal learning companion. 🌟\n" +
				"I can help you with:\n" +
				"• 📐 Math problems and equations\n" +
				"• 🧪 Chemistry calculations and concepts\n" +
				"• 📝 Interactive quizzes\n" +
				"• 💬 Community discussions\n" +
				"• 📊 Tracking your learning progress\n" +
				"• 💭 Personal reflections\n" +
				`Try saying "Molar mass of H2O" or "Quiz on atoms".`,
			Card: helpCard("Start a quiz", "Molar mass of H2O", "Solve x^2 - 4 = 0", "Show recent threads", "How am I doing?"),
		}, nil
	}

	now := b.now()
	var sb strings.Builder
	sb.WriteString(salutation(now.Hour()))
	if t.req.DisplayName != "" {
		fmt.Fprintf(&sb, ", %s", t.req.DisplayName)
	}
	sb.WriteString("!")
	if t.learner != nil {
		sb.WriteString(" " + t.learner.Greeting(now))
		if topics := t.learner.RecentTopics(); len(topics) > 0 {
			fmt.Fprintf(&sb, "\nLast time we worked on %s.", strings.Join(topics, ", "))
		}
	}
	sb.WriteString("\nWhat would you like to explore today?")

	return Envelope{
		Text: sb.String(),
		Card: helpCard("My progress", "Start a quiz", "Show recent threads", "Chemistry help"),
	}, nil
}

func (b *Brain) handleHelp(_ context.Context, _ *turn) Envelope {
	return Envelope{
		Text: "🌟 I'm Mentari, your personal learning assistant!\n" +
			"I adapt to your style and help you master:\n" +
			"• 📐 Math (arithmetic, algebra, calculus)\n" +
			"• 🧪 Chemistry (elements, formulas)\n" +
			"• 📝 Quizzes (adaptive, five questions each)\n" +
			"• 💬 Community discussions\n" +
			"• 📊 Progress tracking\n" +
			"• 💭 Reflections and journaling\n" +
			`Try "Molar mass of H2O" or "Quiz on atoms".`,
		Card: helpCard("Start a quiz", "Molar mass of H2O", "Show recent threads", "How am I doing?", "Solve x^2 - 4 = 0"),
	}
}
