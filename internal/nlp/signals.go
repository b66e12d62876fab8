package nlp

import (
	"strings"

	"github.com/mentari-platform/mentari/internal/taxonomy"
)

var (
	urgencyWords    = []string{"urgent", "asap", "quickly", "now", "help!"}
	politenessWords = []string{"please", "thank", "thanks", "sorry"}
)

// ClassifyIndicators runs the four keyword ladders over message.
func ClassifyIndicators(message string) LearningIndicators {
	normalized := taxonomy.Normalize(message)
	return LearningIndicators{
		StruggleLevel:    taxonomy.StruggleLevel.Classify(normalized),
		LearningStage:    taxonomy.LearningStage.Classify(normalized),
		HelpType:         taxonomy.HelpType.Classify(normalized),
		AcademicPressure: taxonomy.AcademicPressure.Classify(normalized),
	}
}

func defaultIndicators() LearningIndicators {
	return LearningIndicators{
		StruggleLevel:    taxonomy.StruggleLevel.Default,
		LearningStage:    taxonomy.LearningStage.Default,
		HelpType:         taxonomy.HelpType.Default,
		AcademicPressure: taxonomy.AcademicPressure.Default,
	}
}

// EnhancedKeywords returns, for every synonym group, the members (or the
// head word itself) found in message.
func EnhancedKeywords(message string) map[string][]string {
	normalized := taxonomy.Normalize(message)
	out := make(map[string][]string)
	for _, g := range taxonomy.Synonyms {
		var found []string
		if taxonomy.ContainsPhrase(normalized, g.Label) {
			found = append(found, g.Label)
		}
		for _, syn := range g.Triggers {
			if taxonomy.ContainsPhrase(normalized, syn) {
				found = append(found, syn)
			}
		}
		if len(found) > 0 {
			out[g.Label] = found
		}
	}
	return out
}

// Conversation derives the surface signals of one message.
func Conversation(message string, userContext map[string]any) ConversationSignals {
	lower := strings.ToLower(message)
	sig := ConversationSignals{
		MessageLength:      len(strings.Fields(message)),
		QuestionIndicators: strings.Contains(message, "?"),
		HasUserContext:     len(userContext) > 0,
	}
	for _, w := range urgencyWords {
		if strings.Contains(lower, w) && (w == "help!" || taxonomy.ContainsPhrase(lower, w)) {
			sig.Urgency = true
			break
		}
	}
	for _, w := range politenessWords {
		if taxonomy.ContainsPhrase(lower, w) {
			sig.Politeness = true
			break
		}
	}
	return sig
}
