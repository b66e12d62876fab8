package analytics

import (
	"time"

	"github.com/google/uuid"
)

// InteractionLog matches the interaction_logs table schema.
type InteractionLog struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"user_id"`
	SessionID  string    `json:"session_id"`
	Route      string    `json:"route"`
	Intent     string    `json:"intent"`
	Emotion    string    `json:"emotion"`
	Fallback   bool      `json:"fallback"`
	Failed     bool      `json:"failed"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// TopicPerformance summarises the attempts on one topic.
type TopicPerformance struct {
	Topic       string  `json:"topic"`
	Average     float64 `json:"average"`
	Attempts    int     `json:"attempts"`
	Improvement float64 `json:"improvement"`
}

// Performance summarises quiz results.
type Performance struct {
	TotalQuizzes    int                `json:"total_quizzes"`
	AverageScore    float64            `json:"average_score"`
	ImprovementRate float64            `json:"improvement_rate"`
	BestTopic       *TopicPerformance  `json:"best_topic"`
	WeakestTopic    *TopicPerformance  `json:"weakest_topic"`
	Topics          []TopicPerformance `json:"all_topics"`
}

// Activity summarises when a learner talks to the assistant.
type Activity struct {
	ActiveDays     int        `json:"total_sessions"`
	MostActiveTime string     `json:"most_active_time,omitempty"`
	Streak         int        `json:"streak"`
	LastActive     *time.Time `json:"last_active,omitempty"`
}

// Patterns are coarse learning preferences inferred from scores.
type Patterns struct {
	PreferredDifficulty string   `json:"preferred_difficulty"`
	ImprovementAreas    []string `json:"improvement_areas"`
	MasteredTopics      []string `json:"topics_mastered"`
}

// Recommendation priorities in sort order.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

// Stats is the full progress report for one learner.
type Stats struct {
	Performance     Performance      `json:"performance"`
	Activity        Activity         `json:"activity"`
	Patterns        Patterns         `json:"patterns"`
	Recommendations []Recommendation `json:"recommendations"`
}
