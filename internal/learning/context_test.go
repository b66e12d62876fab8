package learning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGreeting(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(-d)
		return &v
	}

	tests := []struct {
		name string
		last *time.Time
		want string
	}{
		{"first visit", nil, "Welcome! I'm excited to help you learn."},
		{"minutes ago", at(10 * time.Minute), "Welcome back! Ready to continue?"},
		{"hours ago", at(5 * time.Hour), "Good to see you again!"},
		{"days ago", at(3 * 24 * time.Hour), "Welcome back! It's been a few days."},
		{"weeks ago", at(20 * 24 * time.Hour), "Welcome back! It's been a while."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext("u1")
			c.LastActive = tt.last
			assert.Equal(t, tt.want, c.Greeting(now))
		})
	}
}

func TestRecommendations(t *testing.T) {
	c := NewContext("u1")
	assert.Empty(t, c.Recommendations())

	c.KnowledgeGaps = []Observation{{Topic: "Atoms"}, {Topic: "Molecules"}}
	c.Strengths = []Observation{{Topic: "Algebra"}}
	c.Mood = MoodFrustrated
	assert.Equal(t, []string{
		"Review Molecules",
		"Challenge yourself with advanced Algebra",
		"Try some easier practice problems",
	}, c.Recommendations())

	c.Mood = MoodUnchallenged
	c.KnowledgeGaps = nil
	assert.Equal(t, []string{
		"Challenge yourself with advanced Algebra",
		"Explore more advanced topics",
	}, c.Recommendations())
}

func TestClassifyMood(t *testing.T) {
	tests := map[string]string{
		"this is so difficult": MoodFrustrated,
		"oh I got it":          MoodConfident,
		"that was too easy":    MoodUnchallenged,
		"ok":                   MoodNeutral,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ClassifyMood(in))
		})
	}
}

func TestRecentTopics(t *testing.T) {
	c := NewContext("u1")
	for _, topic := range []string{"a", "", "b", "a", "c", "d", "e", "f"} {
		c.ConversationHistory = append(c.ConversationHistory, Interaction{Topic: topic})
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, c.RecentTopics())
}

func TestParsePreferences(t *testing.T) {
	base := NewContext("u1").Preferences

	t.Run("nil input", func(t *testing.T) {
		assert.Equal(t, base, ParsePreferences(base, nil))
	})

	t.Run("invalid json", func(t *testing.T) {
		assert.Equal(t, base, ParsePreferences(base, []byte("{oops")))
	})

	t.Run("empty object", func(t *testing.T) {
		assert.Equal(t, base, ParsePreferences(base, []byte("{}")))
	})

	t.Run("partial override", func(t *testing.T) {
		got := ParsePreferences(base, []byte(`{"explanation_style":"detailed"}`))
		assert.Equal(t, "detailed", got.ExplanationStyle)
		assert.Equal(t, "medium", got.DifficultyLevel)
		assert.Equal(t, "normal", got.EncouragementLevel)
	})
}

func TestSnapshot(t *testing.T) {
	c := NewContext("u1")
	assert.Nil(t, c.Snapshot())

	now := time.Now()
	c.LastActive = &now
	c.CurrentTopic = "Atoms"
	assert.Equal(t, "Atoms", c.Snapshot()["current_topic"])
}
