package learning

import "time"

// Context is the per-user conversational memory.
type Context struct {
	UserID              string        `json:"user_id"`
	ConversationHistory []Interaction `json:"conversation_history"`
	CurrentTopic        string        `json:"current_topic,omitempty"`
	LearningStyle       string        `json:"learning_style,omitempty"`
	Mood                string        `json:"mood"`
	KnowledgeGaps       []Observation `json:"knowledge_gaps"`
	Strengths           []Observation `json:"strengths"`
	Preferences         Preferences   `json:"preferences"`
	LastActive          *time.Time    `json:"last_active,omitempty"`
	Insights            []Insight     `json:"nl_insights"`
}

// Interaction is one turn of conversation history.
type Interaction struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Topic     string    `json:"topic,omitempty"`
}

// Observation is a knowledge gap or strength for one topic.
type Observation struct {
	Topic      string    `json:"topic"`
	ObservedAt time.Time `json:"identified"`
	Score      *float64  `json:"score,omitempty"`
}

type Preferences struct {
	DifficultyLevel    string `json:"difficulty_level"`
	ExplanationStyle   string `json:"explanation_style"`
	EncouragementLevel string `json:"encouragement_level"`
}

// Insight is a compact record of one annotated message.
type Insight struct {
	Timestamp     time.Time `json:"timestamp"`
	Intent        string    `json:"intent"`
	Emotion       string    `json:"emotion"`
	StruggleLevel string    `json:"struggle_level"`
	HelpType      string    `json:"help_type"`
}

// Mood values.
const (
	MoodNeutral      = "neutral"
	MoodFrustrated   = "frustrated"
	MoodConfident    = "confident"
	MoodUnchallenged = "unchallenged"
)

// NewContext returns the default context for userID.
func NewContext(userID string) *Context {
	return &Context{
		UserID:              userID,
		ConversationHistory: []Interaction{},
		Mood:                MoodNeutral,
		KnowledgeGaps:       []Observation{},
		Strengths:           []Observation{},
		Preferences: Preferences{
			DifficultyLevel:    "medium",
			ExplanationStyle:   "balanced",
			EncouragementLevel: "normal",
		},
		Insights: []Insight{},
	}
}
