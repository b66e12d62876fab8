package nlp

// Annotation methods.
const (
	MethodClassifier = "ml_classifier"
	MethodPattern    = "pattern_matching"
	MethodDefault    = "default"
)

// Annotation is the structured reading of one message. Its shape is the same
// whichever intent path produced it.
type Annotation struct {
	Intent           Intent              `json:"intent"`
	Emotion          Emotion             `json:"emotion"`
	Entities         map[string][]string `json:"entities"`
	Indicators       LearningIndicators  `json:"learning_indicators"`
	EnhancedKeywords map[string][]string `json:"enhanced_keywords,omitempty"`
	Conversation     ConversationSignals `json:"conversation"`
	FallbackMode     bool                `json:"fallback_mode"`
}

type Intent struct {
	Label        string        `json:"primary_intent"`
	Confidence   float64       `json:"confidence"`
	Method       string        `json:"method"`
	Alternatives []ScoredLabel `json:"alternatives"`
}

type Emotion struct {
	Label      string             `json:"primary_emotion"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
}

type ScoredLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type LearningIndicators struct {
	StruggleLevel    string `json:"struggle_level"`
	LearningStage    string `json:"learning_stage"`
	HelpType         string `json:"help_type_needed"`
	AcademicPressure string `json:"academic_pressure"`
}

type ConversationSignals struct {
	MessageLength      int  `json:"message_length"`
	QuestionIndicators bool `json:"question_indicators"`
	Urgency            bool `json:"urgency"`
	Politeness         bool `json:"politeness"`
	HasUserContext     bool `json:"has_user_context"`
}

// HasEntity reports whether any value was extracted for category.
func (a Annotation) HasEntity(category string) bool {
	return len(a.Entities[category]) > 0
}

// IntentIs reports whether the primary intent is label and clears min confidence.
func (a Annotation) IntentIs(label string, min float64) bool {
	return a.Intent.Label == label && a.Intent.Confidence >= min
}
