package quiz

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a quiz subject with at least one question.
type Topic struct {
	ID    int64  `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
}

// Choice is one answer option. Its letter is derived from its position.
type Choice struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"-"`
}

// Question is a multiple-choice question with its choices in display order.
type Question struct {
	ID          int64    `json:"id"`
	TopicID     int64    `json:"topic_id"`
	Text        string   `json:"text"`
	Choices     []Choice `json:"choices"`
	Explanation string   `json:"explanation,omitempty"`
}

// CorrectChoice returns the first correct choice, or nil.
func (q *Question) CorrectChoice() *Choice {
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			return &q.Choices[i]
		}
	}
	return nil
}

// Session is one learner's progress through a quiz. The zero value is an
// inactive session.
type Session struct {
	Active          bool    `json:"active"`
	Paused          bool    `json:"paused"`
	TopicID         int64   `json:"topic_id"`
	TopicName       string  `json:"topic_name"`
	QuestionQueue   []int64 `json:"question_queue"`
	CurrentIndex    int     `json:"current_index"`
	Score           int     `json:"score"`
	Total           int     `json:"total"`
	IncorrectStreak int     `json:"incorrect_streak"`
}

// Accepting reports whether the session takes answers right now.
func (s Session) Accepting() bool {
	return s.Active && !s.Paused
}

// CurrentQuestionID returns the id at the current index.
func (s Session) CurrentQuestionID() (int64, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.QuestionQueue) {
		return 0, false
	}
	return s.QuestionQueue[s.CurrentIndex], true
}

// Status is "active", "paused" or empty for an inactive session.
func (s Session) Status() string {
	switch {
	case s.Active && s.Paused:
		return "paused"
	case s.Active:
		return "active"
	}
	return ""
}

// Feedback describes the outcome of applying one answer.
type Feedback struct {
	Resolved        bool
	Correct         bool
	Selected        string
	CorrectAnswer   string
	Explanation     string
	Completed       bool
	TopicID         int64
	TopicName       string
	Score           int
	Total           int
	Percentage      float64
	IncorrectStreak int
}

// Attempt is the durable record of a finished quiz.
type Attempt struct {
	ID              uuid.UUID `json:"id"`
	UserID          string    `json:"user_id"`
	TopicID         int64     `json:"topic_id"`
	TopicName       string    `json:"topic_name"`
	ScorePercentage float64   `json:"score_percentage"`
	CompletedAt     time.Time `json:"completed_at"`
}
