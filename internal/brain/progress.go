package brain

import (
	"context"
	"fmt"
	"strings"

	"github.com/mentari-platform/mentari/internal/analytics"
	"github.com/mentari-platform/mentari/internal/learning"
)

func topicsOf(obs []learning.Observation) []string {
	out := make([]string, 0, len(obs))
	for _, o := range obs {
		out = append(out, o.Topic)
	}
	return out
}

// handleProgress combines durable quiz statistics with what the learning
// context has noticed in conversation.
func (b *Brain) handleProgress(ctx context.Context, t *turn) (Envelope, error) {
	if t.req.UserID == "" {
		return Envelope{Text: "Please log in to view your progress."}, nil
	}

	card := &ProgressCard{Type: CardProgress}
	var stats []string

	if b.progress != nil {
		st, err := b.progress.Stats(ctx, t.req.UserID)
		if err != nil {
			return Envelope{}, fmt.Errorf("loading progress: %w", err)
		}
		stats = append(stats, performanceLines(st)...)
		card.Performance = &st.Performance
		card.Activity = &st.Activity
		card.Recommendations = st.Recommendations
	}

	if t.learner != nil {
		card.KnowledgeGaps = topicsOf(t.learner.KnowledgeGaps)
		card.Strengths = topicsOf(t.learner.Strengths)
		card.NextSteps = t.learner.Recommendations()
		if len(card.Strengths) > 0 {
			stats = append(stats, "• Strengths: "+strings.Join(card.Strengths, ", "))
		}
		if len(card.KnowledgeGaps) > 0 {
			stats = append(stats, "• Working on: "+strings.Join(card.KnowledgeGaps, ", "))
		}
	}
	card.Stats = stats

	var sb strings.Builder
	sb.WriteString("📊 Your Learning Progress\n")
	if len(stats) == 0 {
		sb.WriteString("No activity yet. Take a quiz to get started!")
	} else {
		sb.WriteString(strings.Join(stats, "\n"))
	}

	next := append([]string(nil), card.NextSteps...)
	for _, r := range card.Recommendations {
		next = append(next, r.Action)
	}
	if len(next) > 0 {
		sb.WriteString("\n\nSuggested next steps:")
		for _, n := range next {
			sb.WriteString("\n→ " + n)
		}
	}

	return Envelope{Text: sb.String(), Card: card}, nil
}

func performanceLines(st *analytics.Stats) []string {
	p := st.Performance
	if p.TotalQuizzes == 0 {
		return nil
	}
	lines := []string{
		fmt.Sprintf("• Total quizzes: %d", p.TotalQuizzes),
		fmt.Sprintf("• Average score: %.1f%%", p.AverageScore),
	}
	if p.ImprovementRate != 0 {
		lines = append(lines, fmt.Sprintf("• Improvement: %+.1f%%", p.ImprovementRate))
	}
	if p.BestTopic != nil {
		lines = append(lines, fmt.Sprintf("• Best topic: %s (%.1f%%)", p.BestTopic.Topic, p.BestTopic.Average))
	}
	if p.WeakestTopic != nil && len(p.Topics) > 1 {
		lines = append(lines, fmt.Sprintf("• Needs attention: %s (%.1f%%)", p.WeakestTopic.Topic, p.WeakestTopic.Average))
	}
	if a := st.Activity; a.Streak > 0 {
		lines = append(lines, fmt.Sprintf("• Current streak: %d days", a.Streak))
	}
	return lines
}
