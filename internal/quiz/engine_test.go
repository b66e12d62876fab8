package quiz

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBank struct {
	topics    []Topic
	questions map[int64]Question
	pools     map[int64][]int64
}

func newStubBank(n int) *stubBank {
	b := &stubBank{
		topics:    []Topic{{ID: 1, Title: "Atoms"}, {ID: 2, Title: "Empty"}},
		questions: make(map[int64]Question),
		pools:     make(map[int64][]int64),
	}
	for i := 1; i <= n; i++ {
		q := fourChoice(int64(i), 0)
		q.TopicID = 1
		b.questions[q.ID] = q
		b.pools[1] = append(b.pools[1], q.ID)
	}
	return b
}

func (b *stubBank) ListTopics(context.Context) ([]Topic, error) { return b.topics, nil }

func (b *stubBank) QuestionIDs(_ context.Context, topicID int64) ([]int64, error) {
	return b.pools[topicID], nil
}

func (b *stubBank) Question(_ context.Context, id int64) (*Question, error) {
	q, ok := b.questions[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

type recorderSpy struct {
	mu       sync.Mutex
	attempts []Attempt
	err      error
}

func (r *recorderSpy) RecordAttempt(_ context.Context, a Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, a)
	return r.err
}

func newEngine(t *testing.T, bank Bank, rec AttemptRecorder, cfg EngineConfig) *Engine {
	t.Helper()
	cfg.Rand = rand.New(rand.NewPCG(9, 9))
	return NewEngine(bank, NewMemorySessionStore(), rec, cfg)
}

func TestEngine_PerfectQuizRecordsAttempt(t *testing.T) {
	ctx := context.Background()
	rec := &recorderSpy{}
	e := newEngine(t, newStubBank(8), rec, EngineConfig{})

	turn, err := e.Begin(ctx, "sess", Topic{ID: 1, Title: "Atoms"})
	require.NoError(t, err)
	require.NotNil(t, turn.Next)
	assert.Equal(t, 5, turn.Session.Total)

	for i := 0; i < 5; i++ {
		turn, err = e.Submit(ctx, "sess", "learner", "A")
		require.NoError(t, err)
		require.True(t, turn.Feedback.Resolved)
	}

	assert.True(t, turn.Feedback.Completed)
	assert.Nil(t, turn.Next)
	assert.False(t, e.Session(ctx, "sess").Active)

	require.Len(t, rec.attempts, 1)
	assert.Equal(t, 100.0, rec.attempts[0].ScorePercentage)
	assert.Equal(t, "learner", rec.attempts[0].UserID)
	assert.Equal(t, int64(1), rec.attempts[0].TopicID)
}

func TestEngine_UnresolvableAnswerKeepsState(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, newStubBank(5), nil, EngineConfig{})

	_, err := e.Begin(ctx, "sess", Topic{ID: 1, Title: "Atoms"})
	require.NoError(t, err)
	before := e.Session(ctx, "sess")

	turn, err := e.Submit(ctx, "sess", "learner", "E")
	require.NoError(t, err)
	assert.False(t, turn.Feedback.Resolved)
	require.NotNil(t, turn.Question)

	if diff := cmp.Diff(before, e.Session(ctx, "sess")); diff != "" {
		t.Errorf("session changed (-want +got):\n%s", diff)
	}
}

func TestEngine_EmptyPool(t *testing.T) {
	e := newEngine(t, newStubBank(3), nil, EngineConfig{})
	_, err := e.Begin(context.Background(), "sess", Topic{ID: 2, Title: "Empty"})
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestEngine_PausedIgnoresAnswers(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, newStubBank(5), nil, EngineConfig{})

	_, err := e.Begin(ctx, "sess", Topic{ID: 1, Title: "Atoms"})
	require.NoError(t, err)

	s, err := e.Pause(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, "paused", s.Status())

	_, err = e.Submit(ctx, "sess", "learner", "A")
	assert.ErrorIs(t, err, ErrNoActiveQuiz)
	assert.Equal(t, 0, e.Session(ctx, "sess").CurrentIndex)

	s, err = e.Resume(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, "active", s.Status())
}

func TestEngine_StopAbandoned(t *testing.T) {
	tests := []struct {
		name            string
		recordAbandoned bool
		wantAttempts    int
	}{
		{"not recorded by default", false, 0},
		{"recorded when enabled", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			rec := &recorderSpy{}
			e := newEngine(t, newStubBank(5), rec, EngineConfig{RecordAbandoned: tt.recordAbandoned})

			_, err := e.Begin(ctx, "sess", Topic{ID: 1, Title: "Atoms"})
			require.NoError(t, err)
			_, err = e.Submit(ctx, "sess", "learner", "A")
			require.NoError(t, err)
			_, err = e.Submit(ctx, "sess", "learner", "B")
			require.NoError(t, err)

			prior, err := e.Stop(ctx, "sess", "learner")
			require.NoError(t, err)
			assert.Equal(t, 2, prior.CurrentIndex)
			assert.False(t, e.Session(ctx, "sess").Active)

			require.Len(t, rec.attempts, tt.wantAttempts)
			if tt.wantAttempts > 0 {
				assert.Equal(t, 50.0, rec.attempts[0].ScorePercentage)
			}
		})
	}
}

func TestEngine_RecorderFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	rec := &recorderSpy{err: errors.New("db down")}
	e := newEngine(t, newStubBank(1), rec, EngineConfig{})

	_, err := e.Begin(ctx, "sess", Topic{ID: 1, Title: "Atoms"})
	require.NoError(t, err)
	turn, err := e.Submit(ctx, "sess", "learner", "B")
	require.NoError(t, err)
	assert.True(t, turn.Feedback.Completed)
	assert.Equal(t, 0.0, turn.Feedback.Percentage)
}

func TestEngine_MissingQuestion(t *testing.T) {
	bank := newStubBank(1)
	delete(bank.questions, 1)
	e := newEngine(t, bank, nil, EngineConfig{})

	_, err := e.Begin(context.Background(), "sess", Topic{ID: 1, Title: "Atoms"})
	assert.ErrorIs(t, err, ErrMissingQuestion)
}

func TestRedisSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisSessionStore(client, time.Minute)
	ctx := context.Background()

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(Session{}, got))

	want := Session{Active: true, TopicID: 3, TopicName: "Atoms", QuestionQueue: []int64{4, 2}, Total: 2, Score: 1, CurrentIndex: 1}
	require.NoError(t, store.Put(ctx, "s1", want))

	got, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got))

	// Storing an inactive session removes it.
	require.NoError(t, store.Put(ctx, "s1", Session{}))
	assert.False(t, mr.Exists(sessionKey("s1")))

	require.NoError(t, store.Put(ctx, "s1", want))
	mr.FastForward(2 * time.Minute)
	got, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestRedisSessionStore_Corrupt(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, mr.Set(sessionKey("s1"), "nope"))

	e := NewEngine(newStubBank(1), NewRedisSessionStore(client, time.Minute), nil, EngineConfig{})
	assert.False(t, e.Session(context.Background(), "s1").Active)
}
