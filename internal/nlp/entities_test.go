package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mentari-platform/mentari/internal/taxonomy"
)

func TestExtractEntities(t *testing.T) {
	t.Run("formulas and chemistry topics", func(t *testing.T) {
		e := ExtractEntities("What is the molar mass of H2O and NaCl?")
		assert.Equal(t, []string{"H2O", "NaCl"}, e[taxonomy.EntityChemicalFormulas])
		assert.Equal(t, []string{"molar mass"}, e[taxonomy.EntityChemistryTopics])
		assert.NotContains(t, e, taxonomy.EntityNumbers)
	})

	t.Run("math expression and numbers", func(t *testing.T) {
		e := ExtractEntities("solve x^2 - 4 = 0")
		assert.Equal(t, []string{"x^2 - 4 = 0"}, e[taxonomy.EntityMathExpressions])
		assert.Equal(t, []string{"2", "4", "0"}, e[taxonomy.EntityNumbers])
	})

	t.Run("pronoun is not a formula", func(t *testing.T) {
		e := ExtractEntities("I need help")
		assert.NotContains(t, e, taxonomy.EntityChemicalFormulas)
	})

	t.Run("all time references collected", func(t *testing.T) {
		e := ExtractEntities("the deadline is tomorrow")
		assert.Equal(t, []string{"tomorrow", "deadline"}, e[taxonomy.EntityTimeReferences])
	})

	t.Run("difficulty and math topics", func(t *testing.T) {
		e := ExtractEntities("advanced calculus and basic algebra")
		assert.Equal(t, []string{"algebra", "calculus"}, e[taxonomy.EntityMathTopics])
		assert.Equal(t, []string{"basic", "advanced"}, e[taxonomy.EntityDifficulty])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ExtractEntities(""))
	})
}

func TestDetectEmotion(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"I am so confused about derivatives", taxonomy.EmotionConfused},
		{"I'm overwhelmed, this is too much", taxonomy.EmotionOverwhelmed},
		{"this is terrible", taxonomy.EmotionNegative},
		{"the sky", taxonomy.EmotionNeutral},
		{"oh I get it now, got it, makes sense", taxonomy.EmotionConfident},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectEmotion(tt.text).Label)
		})
	}

	assert.Equal(t, 0.5, DetectEmotion("the sky").Confidence)
}

func TestPolarity(t *testing.T) {
	p, ok := Polarity("not bad")
	assert.True(t, ok)
	assert.InDelta(t, 0.35, p, 1e-9)

	p, ok = Polarity("this was a wonderful lesson")
	assert.True(t, ok)
	assert.Equal(t, 1.0, p)

	_, ok = Polarity("derivatives of polynomials")
	assert.False(t, ok)
}
