// Package learning keeps a bounded, TTL-backed memory per learner in Redis:
// conversation history, mood, knowledge gaps, strengths and preferences.
//
// The store is cache-style. A missing or unreadable entry is rebuilt from
// defaults, and write failures are reported but never fatal to a turn.
package learning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mentari-platform/mentari/internal/nlp"
)

// Store persists learning contexts. The context document and its history
// list live under separate keys and always share one TTL.
type Store struct {
	client redis.Cmdable
	cfg    Config
	now    func() time.Time
}

// NewStore creates a learning context store.
func NewStore(client redis.Cmdable, cfg Config) *Store {
	return &Store{client: client, cfg: cfg.withDefaults(), now: time.Now}
}

func docKey(userID string) string {
	return fmt.Sprintf("learning:ctx:%s", userID)
}

func historyKey(userID string) string {
	return fmt.Sprintf("learning:history:%s", userID)
}

// Config returns the effective bounds.
func (s *Store) Config() Config {
	return s.cfg
}

// Load returns the stored context for userID, or a fresh default one when
// the entry is absent, expired or unreadable. It never fails.
func (s *Store) Load(ctx context.Context, userID string) *Context {
	pipe := s.client.Pipeline()
	docCmd := pipe.Get(ctx, docKey(userID))
	histCmd := pipe.LRange(ctx, historyKey(userID), int64(-s.cfg.HistoryCap), -1)
	_, err := pipe.Exec(ctx)
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("learning: failed to load context, using defaults", "error", err, "user_id", userID)
		return NewContext(userID)
	}

	raw, err := docCmd.Result()
	if err != nil {
		return NewContext(userID)
	}

	c := NewContext(userID)
	if err := json.Unmarshal([]byte(raw), c); err != nil {
		slog.Warn("learning: malformed context document, using defaults", "error", err, "user_id", userID)
		return NewContext(userID)
	}
	c.UserID = userID
	c.ConversationHistory = make([]Interaction, 0, len(histCmd.Val()))
	for _, v := range histCmd.Val() {
		var in Interaction
		if err := json.Unmarshal([]byte(v), &in); err != nil {
			continue // skip malformed entries
		}
		c.ConversationHistory = append(c.ConversationHistory, in)
	}
	if c.KnowledgeGaps == nil {
		c.KnowledgeGaps = []Observation{}
	}
	if c.Strengths == nil {
		c.Strengths = []Observation{}
	}
	if c.Insights == nil {
		c.Insights = []Insight{}
	}
	return c
}

// Save rewrites the whole context, history included, and refreshes the TTL.
func (s *Store) Save(ctx context.Context, c *Context) error {
	doc, err := marshalDoc(c)
	if err != nil {
		return err
	}

	hkey := historyKey(c.UserID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, docKey(c.UserID), doc, s.cfg.TTL)
	pipe.Del(ctx, hkey)
	if len(c.ConversationHistory) > 0 {
		entries := make([]any, 0, len(c.ConversationHistory))
		for _, in := range c.ConversationHistory {
			data, err := json.Marshal(in)
			if err != nil {
				return fmt.Errorf("marshaling interaction: %w", err)
			}
			entries = append(entries, string(data))
		}
		pipe.RPush(ctx, hkey, entries...)
		pipe.LTrim(ctx, hkey, int64(-s.cfg.HistoryCap), -1)
		pipe.Expire(ctx, hkey, s.cfg.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving learning context for %s: %w", c.UserID, err)
	}
	return nil
}

// RecordInteraction appends a truncated turn, evicting the oldest past the
// history cap, and persists the context.
func (s *Store) RecordInteraction(ctx context.Context, c *Context, message, response, topic string) error {
	in := Interaction{
		Timestamp: s.now().UTC(),
		Message:   truncate(message, s.cfg.TruncateRunes),
		Response:  truncate(response, s.cfg.TruncateRunes),
		Topic:     topic,
	}
	c.appendInteraction(in, s.cfg.HistoryCap)

	doc, err := marshalDoc(c)
	if err != nil {
		return err
	}
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling interaction: %w", err)
	}

	hkey := historyKey(c.UserID)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, docKey(c.UserID), doc, s.cfg.TTL)
	pipe.RPush(ctx, hkey, string(data))
	pipe.LTrim(ctx, hkey, int64(-s.cfg.HistoryCap), -1)
	pipe.Expire(ctx, hkey, s.cfg.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("recording interaction for %s: %w", c.UserID, err)
	}
	return nil
}

// RecordKnowledgeGap keeps at most one gap per topic, the latest winning.
func (s *Store) RecordKnowledgeGap(ctx context.Context, c *Context, topic string, score *float64) error {
	c.KnowledgeGaps = upsertObservation(c.KnowledgeGaps, Observation{Topic: topic, ObservedAt: s.now().UTC(), Score: score}, s.cfg.ObservationCap)
	return s.touch(ctx, c)
}

// RecordStrength keeps at most one strength per topic, the latest winning.
func (s *Store) RecordStrength(ctx context.Context, c *Context, topic string, score *float64) error {
	c.Strengths = upsertObservation(c.Strengths, Observation{Topic: topic, ObservedAt: s.now().UTC(), Score: score}, s.cfg.ObservationCap)
	return s.touch(ctx, c)
}

// UpdateMood classifies free text into frustrated, confident, unchallenged
// or neutral and persists the result.
func (s *Store) UpdateMood(ctx context.Context, c *Context, indicators string) error {
	c.Mood = ClassifyMood(indicators)
	return s.touch(ctx, c)
}

// UpdateLearningStyle records a style when the hint names one.
func (s *Store) UpdateLearningStyle(ctx context.Context, c *Context, hint string) error {
	style := StyleFor(hint)
	if style == "" {
		return nil
	}
	c.LearningStyle = style
	return s.touch(ctx, c)
}

// UpdatePreferences merges a partial JSON preferences document.
func (s *Store) UpdatePreferences(ctx context.Context, c *Context, data []byte) error {
	c.Preferences = ParsePreferences(c.Preferences, data)
	return s.touch(ctx, c)
}

// ApplyAnnotation folds the enhancer's reading of a message into the
// context: mood from a non-neutral emotion, a knowledge gap on high struggle,
// learning style from the help type, and a capped insight trail.
func (s *Store) ApplyAnnotation(ctx context.Context, c *Context, a nlp.Annotation) error {
	now := s.now().UTC()
	if a.Emotion.Label != "" && a.Emotion.Label != MoodNeutral {
		c.Mood = a.Emotion.Label
	}
	if a.Indicators.StruggleLevel == "high" {
		if topic := TopicFromEntities(a.Entities); topic != "" {
			c.KnowledgeGaps = upsertObservation(c.KnowledgeGaps, Observation{Topic: topic, ObservedAt: now}, s.cfg.ObservationCap)
		}
	}
	if style := StyleFor(a.Indicators.HelpType); style != "" {
		c.LearningStyle = style
	}
	c.Insights = append(c.Insights, insightFrom(a, now))
	if over := len(c.Insights) - s.cfg.InsightCap; over > 0 {
		c.Insights = append([]Insight(nil), c.Insights[over:]...)
	}
	return s.touch(ctx, c)
}

// Clear drops everything stored for userID.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, docKey(userID), historyKey(userID)).Err(); err != nil {
		return fmt.Errorf("clearing learning context for %s: %w", userID, err)
	}
	return nil
}

// touch rewrites the document and slides the TTL of both keys.
func (s *Store) touch(ctx context.Context, c *Context) error {
	doc, err := marshalDoc(c)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, docKey(c.UserID), doc, s.cfg.TTL)
	pipe.Expire(ctx, historyKey(c.UserID), s.cfg.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving learning context for %s: %w", c.UserID, err)
	}
	return nil
}

// marshalDoc encodes c without its history, which lives in its own list.
func marshalDoc(c *Context) (string, error) {
	doc := *c
	doc.ConversationHistory = nil
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling learning context: %w", err)
	}
	return string(data), nil
}
