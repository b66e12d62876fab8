package brain

import (
	"time"

	"github.com/mentari-platform/mentari/internal/analytics"
	"github.com/mentari-platform/mentari/internal/community"
	"github.com/mentari-platform/mentari/internal/quiz"
)

// Envelope is the single response shape every turn produces.
type Envelope struct {
	Text       string `json:"text"`
	Card       Card   `json:"card,omitempty"`
	QuizStatus string `json:"quiz_status,omitempty"`
}

// Card is structured content rendered next to the text. Every card
// marshals flat as {"type": ..., fields...}.
type Card interface {
	CardType() string
}

// Card types.
const (
	CardHelp          = "help"
	CardActions       = "actions"
	CardQuizQuestion  = "quiz_question"
	CardQuizComplete  = "quiz_complete"
	CardQuizPaused    = "quiz_paused"
	CardTopicList     = "topic_list"
	CardThreadList    = "thread_list"
	CardBoardList     = "board_list"
	CardCommunityHelp = "community_help"
	CardCalculation   = "calculation"
	CardProgress      = "progress"
	CardReflections   = "reflections"
	CardEncouragement = "encouragement"
)

// Action is a button. Action is sent back as a message; URL navigates.
type Action struct {
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
	URL    string `json:"url,omitempty"`
}

type HelpCard struct {
	Type        string   `json:"type"`
	Suggestions []string `json:"suggestions"`
}

func helpCard(suggestions ...string) *HelpCard {
	return &HelpCard{Type: CardHelp, Suggestions: suggestions}
}

func (c *HelpCard) CardType() string { return c.Type }

// ActionsCard is a bare list of actions under a type such as quiz_paused.
type ActionsCard struct {
	Type    string   `json:"type"`
	Actions []Action `json:"actions"`
}

func actionsCard(typ string, actions ...Action) *ActionsCard {
	return &ActionsCard{Type: typ, Actions: actions}
}

func (c *ActionsCard) CardType() string { return c.Type }

type ChoiceOption struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Letter string `json:"letter"`
}

type QuizQuestionCard struct {
	Type        string         `json:"type"`
	QuestionID  int64          `json:"question_id"`
	QuestionNum int            `json:"question_num"`
	Total       int            `json:"total"`
	Text        string         `json:"text"`
	Choices     []ChoiceOption `json:"choices"`
}

func (c *QuizQuestionCard) CardType() string { return c.Type }

func questionCard(q *quiz.Question, num, total int) *QuizQuestionCard {
	c := &QuizQuestionCard{
		Type:        CardQuizQuestion,
		QuestionID:  q.ID,
		QuestionNum: num,
		Total:       total,
		Text:        q.Text,
		Choices:     make([]ChoiceOption, len(q.Choices)),
	}
	for i, ch := range q.Choices {
		c.Choices[i] = ChoiceOption{ID: ch.ID, Text: ch.Text, Letter: quiz.Letter(i)}
	}
	return c
}

type QuizCompleteCard struct {
	Type            string   `json:"type"`
	Topic           string   `json:"topic"`
	Score           int      `json:"score"`
	Total           int      `json:"total"`
	Percentage      float64  `json:"percentage"`
	Recommendations []string `json:"recommendations"`
	NextActions     []Action `json:"next_actions"`
}

func (c *QuizCompleteCard) CardType() string { return c.Type }

type TopicListCard struct {
	Type   string       `json:"type"`
	Topics []quiz.Topic `json:"topics"`
}

func (c *TopicListCard) CardType() string { return c.Type }

// ThreadItem is a thread as listed on a card.
type ThreadItem struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Replies   int       `json:"replies"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type ThreadListCard struct {
	Type    string       `json:"type"`
	View    string       `json:"view"`
	Threads []ThreadItem `json:"threads"`
}

func (c *ThreadListCard) CardType() string { return c.Type }

func threadCard(view string, threads []community.Thread) *ThreadListCard {
	c := &ThreadListCard{Type: CardThreadList, View: view, Threads: make([]ThreadItem, len(threads))}
	for i, t := range threads {
		c.Threads[i] = ThreadItem{
			ID:        t.ID,
			Title:     t.Title,
			Author:    t.Author,
			Replies:   t.ReplyCount,
			URL:       t.URL(),
			CreatedAt: t.CreatedAt,
		}
	}
	return c
}

type BoardListCard struct {
	Type   string            `json:"type"`
	Boards []community.Board `json:"boards"`
}

func (c *BoardListCard) CardType() string { return c.Type }

// CalculationCard carries a calculator result for clients that render it
// apart from the text.
type CalculationCard struct {
	Type       string `json:"type"`
	Calculator string `json:"calculator"`
	Input      string `json:"input"`
	Result     string `json:"result"`
}

func (c *CalculationCard) CardType() string { return c.Type }

type ProgressCard struct {
	Type            string                     `json:"type"`
	Stats           []string                   `json:"stats"`
	Performance     *analytics.Performance     `json:"performance,omitempty"`
	Activity        *analytics.Activity        `json:"activity,omitempty"`
	Recommendations []analytics.Recommendation `json:"recommendations,omitempty"`
	KnowledgeGaps   []string                   `json:"knowledge_gaps,omitempty"`
	Strengths       []string                   `json:"strengths,omitempty"`
	NextSteps       []string                   `json:"next_steps,omitempty"`
}

func (c *ProgressCard) CardType() string { return c.Type }

// ReflectionItem is a journal entry as listed on a card.
type ReflectionItem struct {
	Body      string    `json:"body"`
	Prompt    string    `json:"prompt,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ReflectionsCard struct {
	Type    string           `json:"type"`
	Entries []ReflectionItem `json:"entries"`
}

func (c *ReflectionsCard) CardType() string { return c.Type }

type EncouragementCard struct {
	Type        string   `json:"type"`
	Emotion     string   `json:"emotion"`
	Suggestions []string `json:"suggestions"`
}

func (c *EncouragementCard) CardType() string { return c.Type }
