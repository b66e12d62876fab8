package nlp

import (
	"github.com/mentari-platform/mentari/internal/taxonomy"
)

const (
	sentimentThreshold = 0.3
	neutralConfidence  = 0.5
)

// DetectEmotion scores every emotion by trigger coverage, folds a coarse
// sentiment polarity into synthetic positive/negative buckets and returns the
// arg-max. Ties go to the earlier category.
func DetectEmotion(message string) Emotion {
	normalized := taxonomy.Normalize(message)
	scores := make(map[string]float64)
	order := make([]string, 0, len(taxonomy.Emotions)+2)

	for _, c := range taxonomy.Emotions {
		if s := c.Score(normalized); s > 0 {
			scores[c.Label] = s
			order = append(order, c.Label)
		}
	}

	if polarity, ok := Polarity(message); ok {
		switch {
		case polarity > sentimentThreshold:
			scores[taxonomy.EmotionPositive] = polarity
			order = append(order, taxonomy.EmotionPositive)
		case polarity < -sentimentThreshold:
			scores[taxonomy.EmotionNegative] = -polarity
			order = append(order, taxonomy.EmotionNegative)
		}
	}

	if len(scores) == 0 {
		return neutralEmotion()
	}

	best, bestScore := "", 0.0
	for _, l := range order {
		if scores[l] > bestScore {
			best, bestScore = l, scores[l]
		}
	}
	return Emotion{Label: best, Confidence: bestScore, Scores: scores}
}

func neutralEmotion() Emotion {
	return Emotion{
		Label:      taxonomy.EmotionNeutral,
		Confidence: neutralConfidence,
		Scores:     map[string]float64{},
	}
}
