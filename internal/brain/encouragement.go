package brain

import (
	"context"
	"fmt"

	"github.com/mentari-platform/mentari/internal/taxonomy"
)

// Emotion guide categories.
const (
	guideGrowthMindset = "growth_mindset"
	guideFrustration   = "frustration"
	guideCuriosity     = "curiosity"
	guideConfusion     = "confusion"
	guideConfidence    = "confidence"
)

var guideResponses = map[string][]string{
	guideGrowthMindset: {
		"Mistakes aren't failures, they're signals you're trying something bold.",
		"Each challenge is a chance to stretch your thinking. Let's keep going.",
		"Your effort matters more than the outcome. Science is built on persistence.",
		"What did this experience teach you about your process?",
		"This is how real understanding is built: layer by layer.",
	},
	guideFrustration: {
		"Frustration often shows you're close to a breakthrough.",
		"Let's slow down. What part feels most overwhelming?",
		"Even scientists hit walls. What's the first small step forward?",
		"You don't have to figure it all out right now. Let's breathe and reset.",
	},
	guideCuriosity: {
		"That question shows your brain is making connections. Explore it!",
		"Curiosity is the engine behind every discovery.",
		"What makes you wonder about this?",
		"Follow that thread. What might you find if you keep pulling it?",
	},
	guideConfusion: {
		"Confusion is data: what's blurry is often what's important.",
		"Let's sort through this together. Where should we start?",
		"Learning means feeling uncertain sometimes. You're not alone in this.",
		"What questions do you have so far?",
	},
	guideConfidence: {
		"That clarity you're feeling? That's earned.",
		"You're starting to own this understanding. Celebrate that!",
		"It feels good when things click. What got you here?",
		"Let's build from this momentum. What's next?",
	},
}

// guideKeywords are checked in order; the first hit picks the category.
var guideKeywords = []struct {
	word     string
	category string
}{
	{"why", guideCuriosity},
	{"how", guideCuriosity},
	{"wonder", guideCuriosity},
	{"confused", guideConfusion},
	{"unclear", guideConfusion},
	{"frustrated", guideFrustration},
	{"stuck", guideFrustration},
	{"success", guideConfidence},
	{"worked", guideConfidence},
	{"achieved", guideConfidence},
	{"mistake", guideGrowthMindset},
	{"failure", guideGrowthMindset},
	{"try", guideGrowthMindset},
}

var emotionGuide = map[string]string{
	taxonomy.EmotionFrustrated:  guideFrustration,
	taxonomy.EmotionOverwhelmed: guideFrustration,
	taxonomy.EmotionConfused:    guideConfusion,
	taxonomy.EmotionCurious:     guideCuriosity,
	taxonomy.EmotionConfident:   guideConfidence,
	taxonomy.EmotionExcited:     guideConfidence,
}

// guideCategory reads the message first and the detected emotion second.
func guideCategory(norm, emotion string) string {
	for _, k := range guideKeywords {
		if taxonomy.ContainsPhrase(norm, k.word) {
			return k.category
		}
	}
	if c, ok := emotionGuide[emotion]; ok {
		return c
	}
	return guideGrowthMindset
}

var encouragementTopics = []struct {
	key   string
	topic string
}{
	{"atom", "Atoms, Ions, and Isotopes"},
	{"molecule", "Molecules"},
	{"reaction", "Chemical Reactions"},
	{"integrate", "Calculus"},
	{"derivative", "Calculus"},
	{"solve", "Algebra"},
	{"equation", "Algebra"},
	{"chemistry", "Chemistry"},
	{"math", "Mathematics"},
}

func encouragementTopic(norm string) (string, bool) {
	for _, et := range encouragementTopics {
		if taxonomy.ContainsPhrase(norm, et.key) {
			return et.topic, true
		}
	}
	return "this topic", false
}

func (b *Brain) handleEncouragement(_ context.Context, t *turn) (Envelope, error) {
	topic, known := encouragementTopic(t.norm)
	if known {
		t.topic = topic
	}
	opener := b.choose([]string{
		fmt.Sprintf("I know %s can feel tricky, and you're doing great! 💪", topic),
		fmt.Sprintf("Let's break down %s step by step.", topic),
		fmt.Sprintf("Don't worry, %s clicks for everyone at their own pace.", topic),
	})

	category := guideCategory(t.norm, t.ann.Emotion.Label)
	suggestions := []string{"Start a quiz", "Show recent threads", "Reflection prompt"}
	if known {
		suggestions = append([]string{"Quiz on " + topic}, suggestions...)
	}
	return Envelope{
		Text: opener + "\n" + b.choose(guideResponses[category]),
		Card: &EncouragementCard{Type: CardEncouragement, Emotion: category, Suggestions: suggestions},
	}, nil
}
