// Package brain turns one learner message into one response envelope. It
// annotates the message, walks an ordered route table to pick exactly one
// handler, and normalizes whatever the handler produced. No failure inside a
// turn escapes Respond.
package brain

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mentari-platform/mentari/internal/analytics"
	"github.com/mentari-platform/mentari/internal/calculator"
	"github.com/mentari-platform/mentari/internal/community"
	"github.com/mentari-platform/mentari/internal/learning"
	"github.com/mentari-platform/mentari/internal/metrics"
	inats "github.com/mentari-platform/mentari/internal/nats"
	"github.com/mentari-platform/mentari/internal/nlp"
	"github.com/mentari-platform/mentari/internal/quiz"
	"github.com/mentari-platform/mentari/internal/reflection"
	"github.com/mentari-platform/mentari/internal/taxonomy"
)

// ErrorText is the only thing a learner sees when a turn fails.
const ErrorText = "Sorry, something went wrong on my side. Please try rephrasing your message."

// Request is one inbound learner message. UserID is empty for anonymous
// learners; SessionID scopes the quiz.
type Request struct {
	Message     string
	UserID      string
	SessionID   string
	DisplayName string
}

// Annotator reads intent, emotion and entities off a message.
type Annotator interface {
	Enhance(message string, userContext map[string]any) nlp.Annotation
}

// EventPublisher receives one interaction event per turn.
type EventPublisher interface {
	PublishInteraction(ctx context.Context, event inats.InteractionEvent) error
}

// Deps are the collaborators of a Brain. Annotator, Quiz and Calculators
// are required; the rest may be nil and their features degrade to static
// replies.
type Deps struct {
	Annotator   Annotator
	Quiz        *quiz.Engine
	Calculators *calculator.Registry
	Learning    *learning.Store
	Community   *community.Service
	Journal     reflection.Store
	Progress    *analytics.Service
	Events      EventPublisher
}

// Brain is safe for concurrent use.
type Brain struct {
	annotator Annotator
	quiz      *quiz.Engine
	calcs     *calculator.Registry
	learning  *learning.Store
	community *community.Service
	journal   reflection.Store
	progress  *analytics.Service
	events    EventPublisher

	routes []route
	now    func() time.Time
	pick   func(n int) int
}

func New(deps Deps) *Brain {
	calcs := deps.Calculators
	if calcs == nil {
		calcs = calculator.Default()
	}
	b := &Brain{
		annotator: deps.Annotator,
		quiz:      deps.Quiz,
		calcs:     calcs,
		learning:  deps.Learning,
		community: deps.Community,
		journal:   deps.Journal,
		progress:  deps.Progress,
		events:    deps.Events,
		now:       time.Now,
		pick:      rand.IntN,
	}
	b.routes = b.routeTable()
	return b
}

// turn is the per-message state the predicates and handlers share.
type turn struct {
	req      Request
	text     string
	lower    string
	norm     string
	ann      nlp.Annotation
	session  quiz.Session
	question *quiz.Question
	learner  *learning.Context
	calc     calcChoice
	topic    string
}

// Respond answers one message. It never returns an error; a failing
// handler yields the ErrorText envelope.
func (b *Brain) Respond(ctx context.Context, req Request) Envelope {
	start := time.Now()
	t := &turn{req: req}

	name, env, err := b.dispatch(ctx, t)
	if err != nil {
		slog.Error("brain: turn failed",
			"error", err,
			"route", name,
			"user_id", req.UserID,
			"session_id", req.SessionID,
		)
		metrics.BrainFailuresTotal.Inc()
		env = Envelope{Text: ErrorText}
	}

	env.QuizStatus = b.quiz.Session(ctx, req.SessionID).Status()
	b.remember(ctx, t, env)

	elapsed := time.Since(start)
	metrics.BrainRoutesTotal.WithLabelValues(name).Inc()
	metrics.BrainTurnDuration.Observe(elapsed.Seconds())
	b.publish(ctx, t, name, err != nil, elapsed)
	return env
}

// dispatch prepares the turn and runs the first matching route.
func (b *Brain) dispatch(ctx context.Context, t *turn) (name string, env Envelope, err error) {
	name = routeSetup
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	b.prepare(ctx, t)
	for _, r := range b.routes {
		name = r.name
		if r.match(t) {
			env, err = r.handle(ctx, t)
			return name, env, err
		}
	}
	return RouteFallback, b.handleHelp(ctx, t), nil
}

func (b *Brain) prepare(ctx context.Context, t *turn) {
	t.text = strings.TrimSpace(t.req.Message)
	t.lower = strings.ToLower(t.text)
	t.norm = taxonomy.Normalize(t.text)

	if b.learning != nil && t.req.UserID != "" {
		t.learner = b.learning.Load(ctx, t.req.UserID)
	}
	t.ann = b.annotator.Enhance(t.text, t.learner.Snapshot())

	t.session = b.quiz.Session(ctx, t.req.SessionID)
	if t.session.Accepting() {
		if _, q, err := b.quiz.Current(ctx, t.req.SessionID); err == nil {
			t.question = q
		} else {
			slog.Warn("brain: failed to load current question", "error", err, "session_id", t.req.SessionID)
		}
	}
}

// remember folds the turn into the learner's context. Failures only warn.
func (b *Brain) remember(ctx context.Context, t *turn, env Envelope) {
	if t.learner == nil {
		return
	}
	if err := b.learning.ApplyAnnotation(ctx, t.learner, t.ann); err != nil {
		slog.Warn("brain: failed to apply annotation", "error", err, "user_id", t.req.UserID)
	}
	topic := t.topic
	if topic == "" {
		topic = learning.TopicFromEntities(t.ann.Entities)
	}
	if err := b.learning.RecordInteraction(ctx, t.learner, t.text, env.Text, topic); err != nil {
		slog.Warn("brain: failed to record interaction", "error", err, "user_id", t.req.UserID)
	}
}

func (b *Brain) publish(ctx context.Context, t *turn, route string, failed bool, elapsed time.Duration) {
	if b.events == nil {
		return
	}
	event := inats.InteractionEvent{
		ID:         uuid.New(),
		UserID:     t.req.UserID,
		SessionID:  t.req.SessionID,
		Route:      route,
		Intent:     t.ann.Intent.Label,
		Emotion:    t.ann.Emotion.Label,
		Fallback:   t.ann.FallbackMode,
		Failed:     failed,
		DurationMS: elapsed.Milliseconds(),
		Timestamp:  b.now().UTC(),
	}
	if err := b.events.PublishInteraction(ctx, event); err != nil {
		slog.Warn("brain: failed to publish interaction", "error", err, "route", route)
	}
}

func (b *Brain) choose(options []string) string {
	return options[b.pick(len(options))]
}
