// Package nlp annotates a single chat message with intent, emotion, entities
// and learning indicators. The enhancer is side-effect free and never fails:
// a broken classifier or a malformed input degrades to pattern matching.
package nlp

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mentari-platform/mentari/internal/metrics"
	"github.com/mentari-platform/mentari/internal/taxonomy"
)

const maxAlternatives = 3

// Enhancer produces Annotations. The classifier is chosen once at
// construction; a nil classifier means patterns only.
type Enhancer struct {
	classifier Classifier
	patterns   *PatternClassifier
}

func NewEnhancer(classifier Classifier) *Enhancer {
	return &Enhancer{classifier: classifier, patterns: NewPatternClassifier()}
}

// Enhance annotates message. userContext is optional caller state and only
// contributes the has_user_context signal.
func (e *Enhancer) Enhance(message string, userContext map[string]any) (a Annotation) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("nlp: enhancement failed, using minimal annotation", "panic", fmt.Sprint(r))
			metrics.NLPFallbackTotal.Inc()
			a = e.minimal(message)
		}
	}()

	intent, fallback := e.classify(message)
	a = Annotation{
		Intent:           intent,
		Emotion:          DetectEmotion(message),
		Entities:         ExtractEntities(message),
		Indicators:       ClassifyIndicators(message),
		EnhancedKeywords: EnhancedKeywords(message),
		Conversation:     Conversation(message, userContext),
		FallbackMode:     fallback,
	}
	if fallback {
		metrics.NLPFallbackTotal.Inc()
	}
	return a
}

// classify runs the injected classifier and falls back to patterns. The
// returned flag is true when the classifier failed rather than abstained.
func (e *Enhancer) classify(message string) (Intent, bool) {
	if e.classifier == nil {
		return e.patternIntent(message), false
	}

	label, scores, err := e.classifier.Predict(message)
	switch {
	case errors.Is(err, ErrNoSignal):
		return e.patternIntent(message), false
	case err != nil:
		slog.Debug("nlp: classifier failed, falling back to patterns", "error", err)
		return e.patternIntent(message), true
	case label == "":
		return e.patternIntent(message), true
	}

	method := MethodClassifier
	if m, ok := e.classifier.(methoder); ok {
		method = m.Method()
	}
	if method == MethodPattern && label == taxonomy.IntentGeneralInquiry {
		method = MethodDefault
	}
	return Intent{
		Label:        label,
		Confidence:   scores[label],
		Method:       method,
		Alternatives: topN(scores, maxAlternatives),
	}, false
}

func (e *Enhancer) patternIntent(message string) Intent {
	label, scores, _ := e.patterns.Predict(message)
	method := MethodPattern
	if label == taxonomy.IntentGeneralInquiry {
		method = MethodDefault
	}
	return Intent{
		Label:        label,
		Confidence:   scores[label],
		Method:       method,
		Alternatives: topN(scores, maxAlternatives),
	}
}

// minimal is the last-resort annotation: pattern intent, neutral emotion and
// empty but present entity and indicator fields.
func (e *Enhancer) minimal(message string) (a Annotation) {
	a = Annotation{
		Intent: Intent{
			Label:        taxonomy.IntentGeneralInquiry,
			Confidence:   0.3,
			Method:       MethodDefault,
			Alternatives: []ScoredLabel{},
		},
		Emotion:      neutralEmotion(),
		Entities:     map[string][]string{},
		Indicators:   defaultIndicators(),
		FallbackMode: true,
	}
	defer func() { _ = recover() }()
	a.Intent = e.patternIntent(message)
	return a
}
