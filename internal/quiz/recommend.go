package quiz

import "fmt"

// Score tiers used for recommendations and metrics.
const (
	TierExcellent     = "excellent"
	TierGood          = "good"
	TierFair          = "fair"
	TierNeedsPractice = "needs_practice"
)

// Tier buckets a percentage at 90, 70 and 50.
func Tier(pct float64) string {
	switch {
	case pct >= 90:
		return TierExcellent
	case pct >= 70:
		return TierGood
	case pct >= 50:
		return TierFair
	}
	return TierNeedsPractice
}

// Recommendations returns the two follow-up suggestions for a finished quiz.
func Recommendations(pct float64, topic string) []string {
	switch Tier(pct) {
	case TierExcellent:
		return []string{
			fmt.Sprintf("🌟 Excellent work on %s! Try a more advanced topic.", topic),
			"🚀 You're ready for challenge problems!",
		}
	case TierGood:
		return []string{
			fmt.Sprintf("👍 Good job on %s! A few more practice questions could help.", topic),
			"🎯 Try reviewing the concepts you missed.",
		}
	case TierFair:
		return []string{
			fmt.Sprintf("📚 %s needs more practice. Don't give up!", topic),
			"🔍 Review the explanations for missed questions.",
		}
	}
	return []string{
		fmt.Sprintf("🌱 %s is challenging - that's okay! Learning takes time.", topic),
		"📖 Consider reviewing the basics first.",
	}
}

// Verdict is the headline emoji and line shown on the completion card.
func Verdict(pct float64) (emoji, message string) {
	switch {
	case pct >= 80:
		return "🏆", "Excellent work! You've mastered this topic!"
	case pct >= 60:
		return "😊", "Good job! You're getting there!"
	}
	return "📚", "Keep practicing! You'll improve with time!"
}
