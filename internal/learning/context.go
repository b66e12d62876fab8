package learning

import (
	"fmt"
	"strings"
	"time"

	"github.com/mentari-platform/mentari/internal/nlp"
	"github.com/mentari-platform/mentari/internal/taxonomy"
)

// appendInteraction adds one turn and evicts from the front past cap.
func (c *Context) appendInteraction(in Interaction, limit int) {
	c.ConversationHistory = append(c.ConversationHistory, in)
	if over := len(c.ConversationHistory) - limit; over > 0 {
		c.ConversationHistory = append([]Interaction(nil), c.ConversationHistory[over:]...)
	}
	at := in.Timestamp
	c.LastActive = &at
	if in.Topic != "" {
		c.CurrentTopic = in.Topic
	}
}

// upsertObservation drops any entry for the same topic, appends obs and caps
// the list from the front.
func upsertObservation(list []Observation, obs Observation, limit int) []Observation {
	out := make([]Observation, 0, len(list)+1)
	for _, o := range list {
		if o.Topic != obs.Topic {
			out = append(out, o)
		}
	}
	out = append(out, obs)
	if over := len(out) - limit; over > 0 {
		out = out[over:]
	}
	return out
}

// ClassifyMood maps free text onto the four coarse moods.
func ClassifyMood(indicators string) string {
	return taxonomy.Moods.Classify(taxonomy.Normalize(indicators))
}

// StyleFor maps a help-type or style hint onto a learning style. An empty
// result means the hint carries no style information.
func StyleFor(hint string) string {
	h := strings.ToLower(hint)
	switch {
	case strings.Contains(h, "visual"):
		return "visual"
	case strings.Contains(h, "step-by-step"):
		return "sequential"
	case strings.Contains(h, "example"):
		return "practical"
	case strings.Contains(h, "conceptual"):
		return "conceptual"
	case strings.Contains(h, "procedural"):
		return "procedural"
	}
	return ""
}

// TopicFromEntities picks a coarse subject from extracted entities.
func TopicFromEntities(entities map[string][]string) string {
	switch {
	case len(entities[taxonomy.EntityChemistryTopics]) > 0:
		return "Chemistry"
	case len(entities[taxonomy.EntityMathTopics]) > 0:
		return "Mathematics"
	case len(entities[taxonomy.EntityChemicalFormulas]) > 0:
		return "Chemistry"
	case len(entities[taxonomy.EntityMathExpressions]) > 0:
		return "Mathematics"
	}
	return ""
}

// RecentTopics returns up to five distinct topics from the last ten turns,
// oldest first.
func (c *Context) RecentTopics() []string {
	hist := c.ConversationHistory
	if len(hist) > 10 {
		hist = hist[len(hist)-10:]
	}
	var topics []string
	seen := make(map[string]bool)
	for _, in := range hist {
		if in.Topic == "" || seen[in.Topic] {
			continue
		}
		seen[in.Topic] = true
		topics = append(topics, in.Topic)
	}
	if len(topics) > 5 {
		topics = topics[:5]
	}
	return topics
}

// Greeting returns a welcome line keyed on how long the user has been away.
func (c *Context) Greeting(now time.Time) string {
	if c.LastActive == nil {
		return "Welcome! I'm excited to help you learn."
	}
	away := now.Sub(*c.LastActive)
	switch {
	case away < time.Hour:
		return "Welcome back! Ready to continue?"
	case away < 24*time.Hour:
		return "Good to see you again!"
	case away < 7*24*time.Hour:
		return "Welcome back! It's been a few days."
	default:
		return "Welcome back! It's been a while."
	}
}

// Recommendations suggests up to three next steps from gaps, strengths and mood.
func (c *Context) Recommendations() []string {
	var out []string
	if n := len(c.KnowledgeGaps); n > 0 {
		out = append(out, fmt.Sprintf("Review %s", c.KnowledgeGaps[n-1].Topic))
	}
	if n := len(c.Strengths); n > 0 {
		out = append(out, fmt.Sprintf("Challenge yourself with advanced %s", c.Strengths[n-1].Topic))
	}
	switch c.Mood {
	case MoodFrustrated:
		out = append(out, "Try some easier practice problems")
	case MoodUnchallenged:
		out = append(out, "Explore more advanced topics")
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

// Snapshot is the subset of the context handed to the enhancer as user context.
func (c *Context) Snapshot() map[string]any {
	if c == nil || c.LastActive == nil {
		return nil
	}
	return map[string]any{
		"mood":           c.Mood,
		"current_topic":  c.CurrentTopic,
		"learning_style": c.LearningStyle,
	}
}

func insightFrom(a nlp.Annotation, at time.Time) Insight {
	return Insight{
		Timestamp:     at,
		Intent:        a.Intent.Label,
		Emotion:       a.Emotion.Label,
		StruggleLevel: a.Indicators.StruggleLevel,
		HelpType:      a.Indicators.HelpType,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
