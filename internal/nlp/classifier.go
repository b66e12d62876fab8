package nlp

import (
	"errors"
	"sort"

	"github.com/mentari-platform/mentari/internal/taxonomy"
)

// ErrNoSignal is returned by a Classifier that has nothing to say about the
// text. The enhancer treats it as a normal cue to score patterns, not as a
// failure.
var ErrNoSignal = errors.New("classifier: no known tokens in input")

// Classifier predicts an intent label and a score for every label it knows.
type Classifier interface {
	Predict(text string) (label string, scores map[string]float64, err error)
}

// methoder is implemented by classifiers that report their own method name.
type methoder interface {
	Method() string
}

// PatternClassifier scores every intent by the fraction of its triggers that
// occur in the text.
type PatternClassifier struct {
	intents []taxonomy.Category
}

func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{intents: taxonomy.Intents}
}

func (p *PatternClassifier) Method() string { return MethodPattern }

// Predict never fails. With no trigger hits it returns general_inquiry at 0.3.
func (p *PatternClassifier) Predict(text string) (string, map[string]float64, error) {
	normalized := taxonomy.Normalize(text)
	scores := make(map[string]float64, len(p.intents))
	best, bestScore := "", 0.0
	for _, c := range p.intents {
		s := c.Score(normalized)
		if s <= 0 {
			continue
		}
		scores[c.Label] = s
		if s > bestScore {
			best, bestScore = c.Label, s
		}
	}
	if best == "" {
		return taxonomy.IntentGeneralInquiry, map[string]float64{taxonomy.IntentGeneralInquiry: 0.3}, nil
	}
	return best, scores, nil
}

// topN returns the n highest scores, ties broken by label.
func topN(scores map[string]float64, n int) []ScoredLabel {
	out := make([]ScoredLabel, 0, len(scores))
	for l, s := range scores {
		out = append(out, ScoredLabel{Label: l, Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Label < out[j].Label
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
