package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPhrase(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		phrase string
		want   bool
	}{
		{"exact word", "hi there", "hi", true},
		{"inside another word", "this is it", "hi", false},
		{"multi word phrase", "good morning mentari", "good morning", true},
		{"plural s", "i am confused about derivatives", "derivative", true},
		{"plural es", "two boxes", "box", true},
		{"prefix only", "hardware", "hard", false},
		{"at end", "i am stuck", "stuck", true},
		{"empty phrase", "anything", "", false},
		{"second occurrence on boundary", "thistle hi", "hi", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsPhrase(tt.text, tt.phrase))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "i dont understand", Normalize("I don't understand"))
	assert.Equal(t, "cant do it", Normalize("Can’t do it"))
}

func TestCategoryScore(t *testing.T) {
	c := Category{Label: "x", Triggers: []string{"alpha", "beta", "gamma", "delta"}}
	assert.Equal(t, 0.5, c.Score("alpha and beta"))
	assert.Equal(t, 0.0, c.Score("nothing here"))
	assert.Equal(t, 0.0, Category{Label: "empty"}.Score("alpha"))
}

func TestLadderClassify(t *testing.T) {
	tests := []struct {
		ladder Ladder
		text   string
		want   string
	}{
		{StruggleLevel, "im giving up on this", "high"},
		{StruggleLevel, "this is hard", "medium"},
		{StruggleLevel, "can you check my work", "low"},
		{StruggleLevel, "hello", "none"},
		{LearningStage, "im new to calculus", "introduction"},
		{LearningStage, "give me more examples", "practice"},
		{LearningStage, "i have an exam", "assessment"},
		{LearningStage, "next level stuff", "advancement"},
		{LearningStage, "tell me about atoms", "exploration"},
		{HelpType, "explain entropy", "conceptual"},
		{HelpType, "solve this", "procedural"},
		{HelpType, "show me one", "example_based"},
		{HelpType, "is this right", "verification"},
		{HelpType, "hmm", "general"},
		{AcademicPressure, "due tomorrow", "high"},
		{AcademicPressure, "my homework", "medium"},
		{AcademicPressure, "just curious", "low"},
		{Moods, "this is difficult", "frustrated"},
		{Moods, "i understand now", "confident"},
		{Moods, "too easy", "unchallenged"},
		{Moods, "ok", "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ladder.Classify(Normalize(tt.text)))
		})
	}
}

func TestLookupAndLabels(t *testing.T) {
	assert.Contains(t, Lookup(Intents, IntentQuizRequest), "quiz")
	assert.Nil(t, Lookup(Intents, "missing"))
	labels := Labels(Emotions)
	assert.Equal(t, EmotionFrustrated, labels[0])
	assert.Len(t, labels, len(Emotions))
}
