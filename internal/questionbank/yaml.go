// Package questionbank provides quiz content and attempt persistence:
// a PostgreSQL bank, a YAML bank for seeding and offline use, and attempt
// stores backed by PostgreSQL or SQLite.
package questionbank

import (
	"context"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/mentari-platform/mentari/internal/quiz"
)

type yamlFile struct {
	Topics []yamlTopic `yaml:"topics"`
}

type yamlTopic struct {
	ID        int64          `yaml:"id"`
	Title     string         `yaml:"title"`
	Questions []yamlQuestion `yaml:"questions"`
}

type yamlQuestion struct {
	ID          int64        `yaml:"id"`
	Text        string       `yaml:"text"`
	Explanation string       `yaml:"explanation"`
	Choices     []yamlChoice `yaml:"choices"`
}

type yamlChoice struct {
	Text    string `yaml:"text"`
	Correct bool   `yaml:"correct"`
}

// YAMLBank is an immutable in-memory bank loaded from a seed document.
type YAMLBank struct {
	topics    []quiz.Topic
	pools     map[int64][]int64
	questions map[int64]*quiz.Question
}

// LoadYAML reads a bank from path.
func LoadYAML(path string) (*YAMLBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML builds a bank from a seed document. Topic and question ids
// count up in document order; an explicit id only moves the counter forward.
func ParseYAML(data []byte) (*YAMLBank, error) {
	var doc yamlFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing question bank: %w", err)
	}

	b := &YAMLBank{
		pools:     make(map[int64][]int64),
		questions: make(map[int64]*quiz.Question),
	}

	var nextTopic, nextQuestion, nextChoice int64
	seenTitles := make(map[string]bool)
	for _, t := range doc.Topics {
		if t.Title == "" {
			return nil, fmt.Errorf("topic #%d has no title", len(b.topics)+1)
		}
		if seenTitles[t.Title] {
			return nil, fmt.Errorf("duplicate topic %q", t.Title)
		}
		seenTitles[t.Title] = true

		nextTopic = max(nextTopic+1, t.ID)
		topic := quiz.Topic{ID: nextTopic, Title: t.Title}

		for _, yq := range t.Questions {
			if err := validateQuestion(t.Title, yq); err != nil {
				return nil, err
			}
			nextQuestion = max(nextQuestion+1, yq.ID)
			if _, dup := b.questions[nextQuestion]; dup {
				return nil, fmt.Errorf("duplicate question id %d", nextQuestion)
			}

			q := &quiz.Question{
				ID:          nextQuestion,
				TopicID:     topic.ID,
				Text:        yq.Text,
				Explanation: yq.Explanation,
			}
			for _, c := range yq.Choices {
				nextChoice++
				q.Choices = append(q.Choices, quiz.Choice{ID: nextChoice, Text: c.Text, IsCorrect: c.Correct})
			}
			b.questions[q.ID] = q
			b.pools[topic.ID] = append(b.pools[topic.ID], q.ID)
		}
		b.topics = append(b.topics, topic)
	}
	return b, nil
}

func validateQuestion(topic string, q yamlQuestion) error {
	if q.Text == "" {
		return fmt.Errorf("topic %q: question without text", topic)
	}
	if len(q.Choices) < 2 || len(q.Choices) > 26 {
		return fmt.Errorf("topic %q: question %q needs 2 to 26 choices", topic, q.Text)
	}
	correct := 0
	for _, c := range q.Choices {
		if c.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("topic %q: question %q must have exactly one correct choice", topic, q.Text)
	}
	return nil
}

// ListTopics returns topics that have at least one question.
func (b *YAMLBank) ListTopics(context.Context) ([]quiz.Topic, error) {
	out := make([]quiz.Topic, 0, len(b.topics))
	for _, t := range b.topics {
		if len(b.pools[t.ID]) > 0 {
			out = append(out, t)
		}
	}
	return out, nil
}

func (b *YAMLBank) QuestionIDs(_ context.Context, topicID int64) ([]int64, error) {
	return slices.Clone(b.pools[topicID]), nil
}

// Question returns a copy of the question, or nil when id is unknown.
func (b *YAMLBank) Question(_ context.Context, id int64) (*quiz.Question, error) {
	q, ok := b.questions[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	cp.Choices = slices.Clone(q.Choices)
	return &cp, nil
}
