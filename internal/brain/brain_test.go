package brain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentari-platform/mentari/internal/analytics"
	"github.com/mentari-platform/mentari/internal/community"
	"github.com/mentari-platform/mentari/internal/database"
	"github.com/mentari-platform/mentari/internal/learning"
	inats "github.com/mentari-platform/mentari/internal/nats"
	"github.com/mentari-platform/mentari/internal/nlp"
	"github.com/mentari-platform/mentari/internal/quiz"
	"github.com/mentari-platform/mentari/internal/reflection"
)

const journalKey = "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

type stubBank struct {
	topics    []quiz.Topic
	questions map[int64]quiz.Question
	pools     map[int64][]int64
}

func newStubBank() *stubBank {
	b := &stubBank{
		topics: []quiz.Topic{
			{ID: 1, Title: "Atoms"},
			{ID: 2, Title: "Empty"},
			{ID: 3, Title: "Arithmetic Drills"},
		},
		questions: make(map[int64]quiz.Question),
		pools:     make(map[int64][]int64),
	}
	for i := int64(1); i <= 5; i++ {
		b.add(1, quiz.Question{
			ID:   i,
			Text: fmt.Sprintf("Atoms question %d?", i),
			Choices: []quiz.Choice{
				{ID: i*10 + 1, Text: fmt.Sprintf("Right %d", i), IsCorrect: true},
				{ID: i*10 + 2, Text: "Wrong one"},
				{ID: i*10 + 3, Text: "Wrong two"},
				{ID: i*10 + 4, Text: "Wrong three"},
			},
			Explanation: "Because atoms.",
		})
	}
	b.add(3, quiz.Question{
		ID:   100,
		Text: "Which expression equals 4?",
		Choices: []quiz.Choice{
			{ID: 1001, Text: "5 - 3"},
			{ID: 1002, Text: "2 + 2", IsCorrect: true},
		},
	})
	return b
}

func (b *stubBank) add(topicID int64, q quiz.Question) {
	q.TopicID = topicID
	b.questions[q.ID] = q
	b.pools[topicID] = append(b.pools[topicID], q.ID)
}

func (b *stubBank) ListTopics(context.Context) ([]quiz.Topic, error) { return b.topics, nil }

func (b *stubBank) QuestionIDs(_ context.Context, topicID int64) ([]int64, error) {
	return b.pools[topicID], nil
}

func (b *stubBank) Question(_ context.Context, id int64) (*quiz.Question, error) {
	q, ok := b.questions[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

type attemptLog struct {
	mu       sync.Mutex
	attempts []quiz.Attempt
}

func (l *attemptLog) RecordAttempt(_ context.Context, a quiz.Attempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = append(l.attempts, a)
	return nil
}

func (l *attemptLog) ListAttempts(_ context.Context, userID string, _ int) ([]quiz.Attempt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []quiz.Attempt
	for _, a := range l.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type eventSpy struct {
	mu     sync.Mutex
	events []inats.InteractionEvent
}

func (s *eventSpy) PublishInteraction(_ context.Context, e inats.InteractionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return nil
}

func (s *eventSpy) lastRoute() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return ""
	}
	return s.events[len(s.events)-1].Route
}

type panicAnnotator struct{}

func (panicAnnotator) Enhance(string, map[string]any) nlp.Annotation {
	panic("classifier exploded")
}

type failingReader struct{ community.StaticReader }

func (failingReader) RecentThreads(context.Context, int) ([]community.Thread, error) {
	return nil, errors.New("connection refused")
}

type fixture struct {
	brain    *Brain
	attempts *attemptLog
	sessions *quiz.MemorySessionStore
	learning *learning.Store
	events   *eventSpy
}

func newFixture(t *testing.T, edit ...func(*Deps)) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	f := &fixture{
		attempts: &attemptLog{},
		sessions: quiz.NewMemorySessionStore(),
		learning: learning.NewStore(client, learning.DefaultConfig()),
		events:   &eventSpy{},
	}
	engine := quiz.NewEngine(newStubBank(), f.sessions, f.attempts, quiz.EngineConfig{
		Rand: rand.New(rand.NewPCG(1, 2)),
	})

	deps := Deps{
		Annotator: nlp.NewEnhancer(nil),
		Quiz:      engine,
		Learning:  f.learning,
		Community: community.NewService(&community.StaticReader{Threads: []community.Thread{
			{ID: 7, Title: "Balancing redox equations", Author: "ana", ReplyCount: 3, CreatedAt: time.Now()},
		}}),
		Progress: analytics.NewService(f.attempts, nil),
		Events:   f.events,
	}
	for _, fn := range edit {
		fn(&deps)
	}
	f.brain = New(deps)
	f.brain.pick = func(int) int { return 0 }
	return f
}

func (f *fixture) say(t *testing.T, message string) Envelope {
	t.Helper()
	return f.brain.Respond(context.Background(), Request{
		Message:     message,
		UserID:      "u1",
		SessionID:   "s1",
		DisplayName: "Ana",
	})
}

func (f *fixture) session(t *testing.T) quiz.Session {
	t.Helper()
	s, err := f.sessions.Get(context.Background(), "s1")
	require.NoError(t, err)
	return s
}

func TestGreetingAnonymous(t *testing.T) {
	f := newFixture(t)
	env := f.brain.Respond(context.Background(), Request{Message: "Hello there", SessionID: "anon"})

	assert.Contains(t, env.Text, "I'm Mentari")
	card, ok := env.Card.(*HelpCard)
	require.True(t, ok)
	assert.Contains(t, card.Suggestions, "Start a quiz")
	assert.Equal(t, RouteGreeting, f.events.lastRoute())
	assert.Empty(t, env.QuizStatus)
}

func TestGreetingPersonalized(t *testing.T) {
	f := newFixture(t)
	f.brain.now = func() time.Time { return time.Date(2026, 5, 4, 9, 30, 0, 0, time.Local) }

	env := f.say(t, "hey")
	assert.Contains(t, env.Text, "Good morning, Ana!")
	assert.Contains(t, env.Text, "Welcome! I'm excited to help you learn.")

	f.brain.now = func() time.Time { return time.Date(2026, 5, 4, 18, 0, 0, 0, time.Local) }
	env = f.say(t, "good evening")
	assert.Contains(t, env.Text, "Good evening, Ana!")
}

func TestPerfectQuiz(t *testing.T) {
	f := newFixture(t)

	env := f.say(t, "quiz on atoms")
	require.IsType(t, &QuizQuestionCard{}, env.Card)
	assert.Contains(t, env.Text, "Starting quiz on Atoms")
	assert.Equal(t, "active", env.QuizStatus)
	assert.Equal(t, 5, f.session(t).Total)

	for i := 1; i < 5; i++ {
		env = f.say(t, "a")
		require.Equal(t, RouteQuizAnswer, f.events.lastRoute())
		assert.Contains(t, env.Text, "✅ Correct!")
		card := env.Card.(*QuizQuestionCard)
		assert.Equal(t, i+1, card.QuestionNum)
		assert.Equal(t, i, f.session(t).CurrentIndex)
	}

	env = f.say(t, "A")
	card, ok := env.Card.(*QuizCompleteCard)
	require.True(t, ok)
	assert.Equal(t, 5, card.Score)
	assert.Equal(t, 5, card.Total)
	assert.Equal(t, 100.0, card.Percentage)
	assert.Equal(t, quiz.Recommendations(100, "Atoms"), card.Recommendations)
	assert.Contains(t, env.Text, "Quiz Complete!")
	assert.Contains(t, env.Text, "5/5 (100%)")
	assert.Empty(t, env.QuizStatus)
	assert.False(t, f.session(t).Active)

	require.Len(t, f.attempts.attempts, 1)
	assert.Equal(t, 100.0, f.attempts.attempts[0].ScorePercentage)
	assert.Equal(t, "u1", f.attempts.attempts[0].UserID)

	learner := f.learning.Load(context.Background(), "u1")
	require.Len(t, learner.Strengths, 1)
	assert.Equal(t, "Atoms", learner.Strengths[0].Topic)
}

func TestUnresolvableAnswerReasks(t *testing.T) {
	f := newFixture(t)
	first := f.say(t, "quiz on atoms").Card.(*QuizQuestionCard)

	env := f.say(t, "E")
	assert.Equal(t, RouteQuizAnswer, f.events.lastRoute())
	assert.Contains(t, env.Text, "Please answer with A, B, C or D")
	card := env.Card.(*QuizQuestionCard)
	assert.Equal(t, first.QuestionID, card.QuestionID)
	assert.Equal(t, 1, card.QuestionNum)

	s := f.session(t)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, "active", env.QuizStatus)
}

func TestIncorrectAnswerShowsCorrectChoice(t *testing.T) {
	f := newFixture(t)
	f.say(t, "quiz on atoms")

	env := f.say(t, "answer: wrong two")
	assert.Contains(t, env.Text, "❌ Incorrect. The correct answer was: Right")
	assert.Contains(t, env.Text, "📚 Explanation: Because atoms.")
	assert.Equal(t, 1, f.session(t).IncorrectStreak)
}

func TestPausedQuizIgnoresAnswers(t *testing.T) {
	f := newFixture(t)
	f.say(t, "quiz on atoms")
	f.say(t, "a")
	before := f.session(t)

	env := f.say(t, "pause quiz")
	assert.Equal(t, RouteQuizControl, f.events.lastRoute())
	assert.Contains(t, env.Text, "Quiz Paused")
	assert.Equal(t, "paused", env.QuizStatus)
	assert.IsType(t, &ActionsCard{}, env.Card)

	env = f.say(t, "b")
	assert.NotEqual(t, RouteQuizAnswer, f.events.lastRoute())
	assert.Equal(t, "paused", env.QuizStatus)

	env = f.say(t, "resume quiz")
	assert.Contains(t, env.Text, "Quiz Resumed")
	assert.Equal(t, "active", env.QuizStatus)
	card := env.Card.(*QuizQuestionCard)
	assert.Equal(t, 2, card.QuestionNum)

	after := f.session(t)
	assert.Equal(t, before.CurrentIndex, after.CurrentIndex)
	assert.Equal(t, before.Score, after.Score)
	assert.Equal(t, before.QuestionQueue, after.QuestionQueue)
}

func TestQuizIgnoresVagueChoiceText(t *testing.T) {
	f := newFixture(t)
	f.say(t, "quiz on atoms")
	before := f.session(t)

	for _, msg := range []string{"wrong", "one", "ok"} {
		f.say(t, msg)
		assert.NotEqual(t, RouteQuizAnswer, f.events.lastRoute(), msg)
		assert.Equal(t, before.CurrentIndex, f.session(t).CurrentIndex, msg)
	}

	env := f.say(t, "wrong two")
	assert.Equal(t, RouteQuizAnswer, f.events.lastRoute())
	assert.Contains(t, env.Text, "Incorrect")
	assert.Equal(t, before.CurrentIndex+1, f.session(t).CurrentIndex)
}

func TestEndQuizClearsSession(t *testing.T) {
	f := newFixture(t)
	f.say(t, "quiz on atoms")
	f.say(t, "a")

	env := f.say(t, "end quiz")
	assert.Contains(t, env.Text, "Quiz Ended")
	assert.Contains(t, env.Text, "You answered 1 of 5 questions on Atoms.")
	assert.Empty(t, env.QuizStatus)
	assert.False(t, f.session(t).Active)
	assert.Empty(t, f.attempts.attempts)
}

func TestStartWhileQuizInProgress(t *testing.T) {
	f := newFixture(t)
	f.say(t, "quiz on atoms")

	env := f.say(t, "start a new quiz")
	assert.Equal(t, RouteQuizStart, f.events.lastRoute())
	assert.Contains(t, env.Text, "already have a quiz on Atoms")
	assert.Equal(t, "active", env.QuizStatus)
}

func TestRoutePrecedence(t *testing.T) {
	t.Run("greeting beats quiz answer", func(t *testing.T) {
		f := newFixture(t)
		f.say(t, "quiz on atoms")
		f.say(t, "hi")
		assert.Equal(t, RouteGreeting, f.events.lastRoute())
		assert.Equal(t, 0, f.session(t).CurrentIndex)
	})

	t.Run("quiz answer beats calculator", func(t *testing.T) {
		f := newFixture(t)
		f.say(t, "quiz on arithmetic drills")
		env := f.say(t, "2 + 2")
		assert.Equal(t, RouteQuizAnswer, f.events.lastRoute())
		assert.Contains(t, env.Text, "✅ Correct!")
		assert.NotContains(t, env.Text, "= 4")
	})

	t.Run("calculator without a quiz", func(t *testing.T) {
		f := newFixture(t)
		env := f.say(t, "2 + 2")
		assert.Equal(t, RouteCalculator, f.events.lastRoute())
		assert.Equal(t, "2 + 2 = 4", env.Text)
	})
}

func TestQuizStartListsTopics(t *testing.T) {
	tests := []struct {
		name    string
		message string
		lead    string
	}{
		{"no topic named", "take a quiz", ""},
		{"unknown topic", "quiz on periodic table", ""},
		{"empty pool", "quiz on empty", "No questions available for Empty."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			env := f.say(t, tt.message)
			assert.Equal(t, RouteQuizStart, f.events.lastRoute())
			card, ok := env.Card.(*TopicListCard)
			require.True(t, ok)
			assert.Len(t, card.Topics, 3)
			assert.Contains(t, env.Text, "Available quiz topics:")
			if tt.lead != "" {
				assert.Contains(t, env.Text, tt.lead)
			}
			assert.False(t, f.session(t).Active)
		})
	}
}

func TestCalculatorRoute(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"What is the molar mass of H2O?", "Total: 18.015"},
		{"molar mass of Xx2", "Unknown element: Xx"},
		{"what is 3 * (4 + 5)", "= 27"},
		{"solve x^2 - 4 = 0", "x = -2, x = 2"},
		{"differentiate x^3 + 2x", "d/dx"},
		{"integrate 2x", "x^2 + C"},
		{"element info Fe", "Iron"},
		{"tell me about oxygen", "Oxygen"},
		{"what is sin(30)", "sin(30) = 0.5"},
		{"convert 90 degrees to radians", "π/2"},
		{"simplify sin(x)^2 + cos(x)^2", "= 1"},
		{"area of a circle with radius 3", "28.27 square units"},
		{"find the hypotenuse with legs 3 and 4", "= 5 units"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			f := newFixture(t)
			env := f.say(t, tt.message)
			assert.Equal(t, RouteCalculator, f.events.lastRoute())
			assert.Contains(t, env.Text, tt.want)
			assert.IsType(t, &CalculationCard{}, env.Card)
		})
	}
}

func TestCommunityRoute(t *testing.T) {
	f := newFixture(t)

	env := f.say(t, "show recent threads")
	card, ok := env.Card.(*ThreadListCard)
	require.True(t, ok)
	require.Len(t, card.Threads, 1)
	assert.Equal(t, "/community/thread/7/", card.Threads[0].URL)
	assert.Contains(t, env.Text, "Balancing redox equations by ana (3 replies)")

	env = f.say(t, "list the discussion boards")
	assert.IsType(t, &BoardListCard{}, env.Card)

	env = f.say(t, "forum")
	assert.Equal(t, CardCommunityHelp, env.Card.CardType())
}

func TestReflectionRoute(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	c, err := reflection.NewCipher(journalKey)
	require.NoError(t, err)
	store, err := reflection.NewSQLiteStore(ctx, db, c)
	require.NoError(t, err)

	f := newFixture(t, func(d *Deps) { d.Journal = store })

	env := f.say(t, "Journal: limiting reagents finally make sense")
	assert.Equal(t, RouteReflection, f.events.lastRoute())
	assert.Contains(t, env.Text, "Saved to your journal")

	env = f.say(t, "show my reflections")
	card, ok := env.Card.(*ReflectionsCard)
	require.True(t, ok)
	require.Len(t, card.Entries, 1)
	assert.Equal(t, "limiting reagents finally make sense", card.Entries[0].Body)

	env = f.say(t, "give me a reflection prompt")
	assert.Contains(t, env.Text, "Reflection Prompt:")

	anon := f.brain.Respond(ctx, Request{Message: "journal: secret", SessionID: "anon"})
	assert.Contains(t, anon.Text, "Please log in")
}

func TestProgressRoute(t *testing.T) {
	f := newFixture(t)

	anon := f.brain.Respond(context.Background(), Request{Message: "how am i doing?", SessionID: "anon"})
	assert.Equal(t, "Please log in to view your progress.", anon.Text)

	env := f.say(t, "how am I doing?")
	assert.Contains(t, env.Text, "No activity yet")

	f.say(t, "quiz on atoms")
	for range 5 {
		f.say(t, "a")
	}

	env = f.say(t, "show my progress")
	assert.Equal(t, RouteProgress, f.events.lastRoute())
	assert.Contains(t, env.Text, "• Total quizzes: 1")
	assert.Contains(t, env.Text, "• Average score: 100.0%")
	assert.Contains(t, env.Text, "• Strengths: Atoms")
	card := env.Card.(*ProgressCard)
	assert.Equal(t, 1, card.Performance.TotalQuizzes)
	assert.Equal(t, []string{"Atoms"}, card.Strengths)
}

func TestHelpSeekingUsesEmotionGuide(t *testing.T) {
	f := newFixture(t)

	env := f.say(t, "I am so confused about derivatives")
	assert.Equal(t, RouteHelpSeeking, f.events.lastRoute())
	card, ok := env.Card.(*EncouragementCard)
	require.True(t, ok)
	assert.Equal(t, guideConfusion, card.Emotion)
	assert.Contains(t, env.Text, "Calculus")
	assert.Contains(t, env.Text, guideResponses[guideConfusion][0])
}

func TestGuideCategory(t *testing.T) {
	tests := []struct {
		norm, emotion, want string
	}{
		{"why do acids burn", "", guideCuriosity},
		{"im stuck on this", "", guideFrustration},
		{"it finally worked", "", guideConfidence},
		{"i made a mistake", "", guideGrowthMindset},
		{"everything is too much", "overwhelmed", guideFrustration},
		{"ok", "", guideGrowthMindset},
		// "show" must not count as "how".
		{"show me again", "", guideGrowthMindset},
	}
	for _, tt := range tests {
		t.Run(tt.norm, func(t *testing.T) {
			assert.Equal(t, tt.want, guideCategory(tt.norm, tt.emotion))
		})
	}
}

func TestFallbackHelp(t *testing.T) {
	f := newFixture(t)
	env := f.say(t, "banana")
	assert.Equal(t, RouteFallback, f.events.lastRoute())
	assert.Contains(t, env.Text, "I'm Mentari")
	assert.Equal(t, CardHelp, env.Card.CardType())
}

func TestCatchAll(t *testing.T) {
	t.Run("panicking annotator", func(t *testing.T) {
		f := newFixture(t, func(d *Deps) { d.Annotator = panicAnnotator{} })
		env := f.say(t, "hello")
		assert.Equal(t, Envelope{Text: ErrorText}, env)
		require.Len(t, f.events.events, 1)
		assert.True(t, f.events.events[0].Failed)
	})

	t.Run("failing collaborator", func(t *testing.T) {
		f := newFixture(t, func(d *Deps) { d.Community = community.NewService(&failingReader{}) })
		env := f.say(t, "show recent threads")
		assert.Equal(t, ErrorText, env.Text)
		assert.Nil(t, env.Card)
		assert.Equal(t, RouteCommunity, f.events.lastRoute())
	})

	t.Run("paused status survives a failure", func(t *testing.T) {
		f := newFixture(t, func(d *Deps) { d.Community = community.NewService(&failingReader{}) })
		f.say(t, "quiz on atoms")
		f.say(t, "pause quiz")
		env := f.say(t, "show recent threads")
		assert.Equal(t, ErrorText, env.Text)
		assert.Equal(t, "paused", env.QuizStatus)
	})
}

func TestTurnsAreRemembered(t *testing.T) {
	f := newFixture(t)
	f.say(t, "hello")
	f.say(t, "molar mass of NaCl")

	learner := f.learning.Load(context.Background(), "u1")
	require.Len(t, learner.ConversationHistory, 2)
	assert.Equal(t, "molar mass of NaCl", learner.ConversationHistory[1].Message)
	assert.Equal(t, "Chemistry", learner.ConversationHistory[1].Topic)
	assert.NotNil(t, learner.LastActive)
	assert.Len(t, learner.Insights, 2)
}

func TestEnvelopeJSON(t *testing.T) {
	env := Envelope{
		Text:       "Question 1 of 1: ?",
		Card:       &TopicListCard{Type: CardTopicList, Topics: []quiz.Topic{{ID: 1, Title: "Atoms"}}},
		QuizStatus: "active",
	}
	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"Question 1 of 1: ?","card":{"type":"topic_list","topics":[{"id":1,"title":"Atoms"}]},"quiz_status":"active"}`, string(data))

	data, err = json.Marshal(Envelope{Text: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi"}`, string(data))
}
