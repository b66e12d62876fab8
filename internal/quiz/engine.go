package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/mentari-platform/mentari/internal/metrics"
)

var (
	ErrNoQuestions     = errors.New("topic has no questions")
	ErrNoActiveQuiz    = errors.New("no active quiz")
	ErrMissingQuestion = errors.New("question not found")
)

// Bank is the read side of the question bank.
type Bank interface {
	ListTopics(ctx context.Context) ([]Topic, error)
	QuestionIDs(ctx context.Context, topicID int64) ([]int64, error)
	Question(ctx context.Context, id int64) (*Question, error)
}

// AttemptRecorder persists finished quizzes.
type AttemptRecorder interface {
	RecordAttempt(ctx context.Context, a Attempt) error
}

// AttemptLister reads a learner's attempts, newest first.
type AttemptLister interface {
	ListAttempts(ctx context.Context, userID string, limit int) ([]Attempt, error)
}

// EngineConfig tunes quiz orchestration.
type EngineConfig struct {
	MaxQuestions    int
	RecordAbandoned bool
	Rand            *rand.Rand
}

// Engine runs the state machine against a question bank and session store.
type Engine struct {
	bank     Bank
	sessions SessionStore
	recorder AttemptRecorder
	cfg      EngineConfig
	now      func() time.Time
}

// NewEngine wires an Engine. recorder may be nil, in which case attempts are
// not persisted.
func NewEngine(bank Bank, sessions SessionStore, recorder AttemptRecorder, cfg EngineConfig) *Engine {
	if cfg.MaxQuestions <= 0 {
		cfg.MaxQuestions = DefaultMaxQuestions
	}
	return &Engine{bank: bank, sessions: sessions, recorder: recorder, cfg: cfg, now: time.Now}
}

// Turn is the result of starting or advancing a quiz.
type Turn struct {
	Session  Session
	Feedback Feedback
	// Question is the one just answered, or the one to re-ask when the
	// answer did not resolve.
	Question *Question
	// Next is the question to present, nil when the quiz finished.
	Next *Question
}

// Session returns the stored session, treating store errors as no session.
func (e *Engine) Session(ctx context.Context, sessionID string) Session {
	s, err := e.sessions.Get(ctx, sessionID)
	if err != nil {
		slog.Warn("quiz: failed to load session", "error", err, "session_id", sessionID)
		return Session{}
	}
	return s
}

// Topics lists the topics that can be quizzed.
func (e *Engine) Topics(ctx context.Context) ([]Topic, error) {
	topics, err := e.bank.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	return topics, nil
}

// Begin opens a quiz on topic and returns the first question.
func (e *Engine) Begin(ctx context.Context, sessionID string, topic Topic) (Turn, error) {
	pool, err := e.bank.QuestionIDs(ctx, topic.ID)
	if err != nil {
		return Turn{}, fmt.Errorf("loading question pool: %w", err)
	}

	s, ok := Start(topic, pool, e.cfg.Rand, e.cfg.MaxQuestions)
	if !ok {
		return Turn{}, ErrNoQuestions
	}

	first, err := e.question(ctx, s)
	if err != nil {
		return Turn{}, err
	}
	if err := e.sessions.Put(ctx, sessionID, s); err != nil {
		return Turn{}, fmt.Errorf("storing quiz session: %w", err)
	}

	metrics.QuizStartedTotal.Inc()
	slog.Debug("quiz started", "session_id", sessionID, "topic_id", topic.ID, "total", s.Total)
	return Turn{Session: s, Next: first}, nil
}

// Submit applies answer to the current question. An unresolvable answer
// leaves the session unchanged and returns the same question for a re-ask.
func (e *Engine) Submit(ctx context.Context, sessionID, userID, answer string) (Turn, error) {
	s := e.Session(ctx, sessionID)
	if !s.Accepting() {
		return Turn{Session: s}, ErrNoActiveQuiz
	}

	if s.CurrentIndex >= s.Total {
		fb := Feedback{
			Resolved:   true,
			Completed:  true,
			TopicID:    s.TopicID,
			TopicName:  s.TopicName,
			Score:      s.Score,
			Total:      s.Total,
			Percentage: Percentage(s.Score, s.Total),
		}
		e.finish(ctx, sessionID, userID, fb)
		return Turn{Feedback: fb}, nil
	}

	q, err := e.question(ctx, s)
	if err != nil {
		return Turn{Session: s}, err
	}

	next, fb := ApplyAnswer(s, *q, answer)
	if !fb.Resolved {
		return Turn{Session: s, Feedback: fb, Question: q}, nil
	}

	if fb.Completed {
		e.finish(ctx, sessionID, userID, fb)
		return Turn{Session: next, Feedback: fb, Question: q}, nil
	}

	if err := e.sessions.Put(ctx, sessionID, next); err != nil {
		return Turn{Session: s}, fmt.Errorf("storing quiz session: %w", err)
	}
	upcoming, err := e.question(ctx, next)
	if err != nil {
		return Turn{Session: next, Feedback: fb, Question: q}, err
	}
	return Turn{Session: next, Feedback: fb, Question: q, Next: upcoming}, nil
}

// Current returns the question the session is waiting on.
func (e *Engine) Current(ctx context.Context, sessionID string) (Session, *Question, error) {
	s := e.Session(ctx, sessionID)
	if !s.Active {
		return s, nil, ErrNoActiveQuiz
	}
	q, err := e.question(ctx, s)
	return s, q, err
}

// Pause suspends the active quiz.
func (e *Engine) Pause(ctx context.Context, sessionID string) (Session, error) {
	return e.transition(ctx, sessionID, Pause)
}

// Resume continues a paused quiz.
func (e *Engine) Resume(ctx context.Context, sessionID string) (Session, error) {
	return e.transition(ctx, sessionID, Resume)
}

// Stop ends the quiz and returns the session as it was. A partially
// answered quiz is recorded only when RecordAbandoned is set.
func (e *Engine) Stop(ctx context.Context, sessionID, userID string) (Session, error) {
	s := e.Session(ctx, sessionID)
	if !s.Active {
		return s, ErrNoActiveQuiz
	}
	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		return s, fmt.Errorf("deleting quiz session: %w", err)
	}
	if e.cfg.RecordAbandoned && s.CurrentIndex > 0 {
		e.record(ctx, userID, s.TopicID, s.TopicName, Percentage(s.Score, s.CurrentIndex))
	}
	return s, nil
}

func (e *Engine) transition(ctx context.Context, sessionID string, fn func(Session) Session) (Session, error) {
	s := e.Session(ctx, sessionID)
	if !s.Active {
		return s, ErrNoActiveQuiz
	}
	next := fn(s)
	if err := e.sessions.Put(ctx, sessionID, next); err != nil {
		return s, fmt.Errorf("storing quiz session: %w", err)
	}
	return next, nil
}

func (e *Engine) finish(ctx context.Context, sessionID, userID string, fb Feedback) {
	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		slog.Warn("quiz: failed to clear finished session", "error", err, "session_id", sessionID)
	}
	metrics.QuizCompletedTotal.WithLabelValues(Tier(fb.Percentage)).Inc()
	e.record(ctx, userID, fb.TopicID, fb.TopicName, fb.Percentage)
}

func (e *Engine) record(ctx context.Context, userID string, topicID int64, topicName string, pct float64) {
	if e.recorder == nil || userID == "" {
		return
	}
	a := Attempt{
		ID:              uuid.New(),
		UserID:          userID,
		TopicID:         topicID,
		TopicName:       topicName,
		ScorePercentage: pct,
		CompletedAt:     e.now().UTC(),
	}
	if err := e.recorder.RecordAttempt(ctx, a); err != nil {
		slog.Error("quiz: failed to record attempt", "error", err, "user_id", userID, "topic_id", topicID)
	}
}

func (e *Engine) question(ctx context.Context, s Session) (*Question, error) {
	id, ok := s.CurrentQuestionID()
	if !ok {
		return nil, ErrMissingQuestion
	}
	q, err := e.bank.Question(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading question %d: %w", id, err)
	}
	if q == nil {
		return nil, fmt.Errorf("question %d: %w", id, ErrMissingQuestion)
	}
	return q, nil
}
