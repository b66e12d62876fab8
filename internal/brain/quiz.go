package brain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mentari-platform/mentari/internal/quiz"
)

const maxListedTopics = 10

// Quiz scores below gapBelow mark a knowledge gap, scores at or above
// strengthFrom a strength.
const (
	gapBelow     = 60.0
	strengthFrom = 80.0
)

func questionText(q *quiz.Question, num, total int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question %d of %d: %s", num, total, q.Text)
	for i, c := range q.Choices {
		fmt.Fprintf(&sb, "\n%s) %s", quiz.Letter(i), c.Text)
	}
	return sb.String()
}

func letterList(q *quiz.Question) string {
	letters := make([]string, len(q.Choices))
	for i := range q.Choices {
		letters[i] = quiz.Letter(i)
	}
	switch len(letters) {
	case 0:
		return ""
	case 1:
		return letters[0]
	}
	return strings.Join(letters[:len(letters)-1], ", ") + " or " + letters[len(letters)-1]
}

func (b *Brain) handleQuizAnswer(ctx context.Context, t *turn) (Envelope, error) {
	res, err := b.quiz.Submit(ctx, t.req.SessionID, t.req.UserID, t.text)
	if errors.Is(err, quiz.ErrNoActiveQuiz) {
		return Envelope{Text: `There's no quiz waiting for an answer. Say "quiz on <topic>" to start one.`}, nil
	}
	if err != nil {
		return Envelope{}, fmt.Errorf("submitting quiz answer: %w", err)
	}

	fb := res.Feedback
	t.topic = fb.TopicName

	if !fb.Resolved {
		q := res.Question
		s := res.Session
		return Envelope{
			Text: fmt.Sprintf("Please answer with %s (or click on an option).\n\n%s",
				letterList(q), questionText(q, s.CurrentIndex+1, s.Total)),
			Card: questionCard(q, s.CurrentIndex+1, s.Total),
		}, nil
	}

	var sb strings.Builder
	if fb.Correct {
		sb.WriteString("✅ Correct!")
	} else {
		fmt.Fprintf(&sb, "❌ Incorrect. The correct answer was: %s", fb.CorrectAnswer)
	}
	if fb.Explanation != "" {
		fmt.Fprintf(&sb, "\n📚 Explanation: %s", fb.Explanation)
	}
	if fb.IncorrectStreak >= 3 {
		sb.WriteString("\n💪 " + b.choose(guideResponses[guideGrowthMindset]))
	}

	if fb.Completed {
		return b.completeQuiz(ctx, t, fb, sb.String()), nil
	}

	next := res.Next
	num := res.Session.CurrentIndex + 1
	fmt.Fprintf(&sb, "\n\n%s", questionText(next, num, res.Session.Total))
	return Envelope{Text: sb.String(), Card: questionCard(next, num, res.Session.Total)}, nil
}

func (b *Brain) completeQuiz(ctx context.Context, t *turn, fb quiz.Feedback, feedback string) Envelope {
	emoji, verdict := quiz.Verdict(fb.Percentage)
	recs := quiz.Recommendations(fb.Percentage, fb.TopicName)

	var sb strings.Builder
	if feedback != "" {
		sb.WriteString(feedback + "\n\n")
	}
	fmt.Fprintf(&sb, "%s Quiz Complete!\nTopic: %s\nYour score: %d/%d (%.0f%%)\n%s",
		emoji, fb.TopicName, fb.Score, fb.Total, fb.Percentage, verdict)
	for _, r := range recs {
		sb.WriteString("\n" + r)
	}

	b.recordOutcome(ctx, t, fb.TopicName, fb.Percentage)

	return Envelope{
		Text: sb.String(),
		Card: &QuizCompleteCard{
			Type:            CardQuizComplete,
			Topic:           fb.TopicName,
			Score:           fb.Score,
			Total:           fb.Total,
			Percentage:      fb.Percentage,
			Recommendations: recs,
			NextActions: []Action{
				{Text: "🔄 Try Another Quiz", Action: "start a new quiz"},
				{Text: "📊 View Progress", Action: "How am I doing?"},
				{Text: "🎯 Practice More", Action: "quiz on " + fb.TopicName},
			},
		},
	}
}

// recordOutcome turns a finished quiz into a knowledge gap or strength.
func (b *Brain) recordOutcome(ctx context.Context, t *turn, topic string, pct float64) {
	if t.learner == nil || topic == "" {
		return
	}
	var err error
	switch {
	case pct < gapBelow:
		err = b.learning.RecordKnowledgeGap(ctx, t.learner, topic, &pct)
	case pct >= strengthFrom:
		err = b.learning.RecordStrength(ctx, t.learner, topic, &pct)
	}
	if err != nil {
		slog.Warn("brain: failed to record quiz outcome", "error", err, "user_id", t.req.UserID, "topic", topic)
	}
}

func (b *Brain) handleQuizControl(ctx context.Context, t *turn) (Envelope, error) {
	switch {
	case containsAny(t.norm, pausePhrases):
		return b.pauseQuiz(ctx, t)
	case containsAny(t.norm, endPhrases):
		return b.endQuiz(ctx, t)
	default:
		return b.resumeQuiz(ctx, t)
	}
}

func pausedCard() *ActionsCard {
	return actionsCard(CardQuizPaused,
		Action{Text: "Resume Quiz", Action: "resume quiz"},
		Action{Text: "End Quiz", Action: "end quiz"},
		Action{Text: "Show Recent Threads", Action: "show recent threads"},
	)
}

func (b *Brain) pauseQuiz(ctx context.Context, t *turn) (Envelope, error) {
	t.topic = t.session.TopicName
	if t.session.Paused {
		return Envelope{
			Text: "Your quiz is already paused. Say 'resume quiz' to continue or 'end quiz' to finish.",
			Card: pausedCard(),
		}, nil
	}
	if _, err := b.quiz.Pause(ctx, t.req.SessionID); err != nil {
		return Envelope{}, fmt.Errorf("pausing quiz: %w", err)
	}
	return Envelope{
		Text: "⏸️ Quiz Paused\n" +
			"Your quiz progress has been saved. You can continue exploring other features.\n" +
			"Say 'resume quiz' when you're ready to continue, or 'end quiz' to finish.",
		Card: pausedCard(),
	}, nil
}

func (b *Brain) endQuiz(ctx context.Context, t *turn) (Envelope, error) {
	s, err := b.quiz.Stop(ctx, t.req.SessionID, t.req.UserID)
	if err != nil {
		return Envelope{}, fmt.Errorf("ending quiz: %w", err)
	}
	t.topic = s.TopicName
	return Envelope{
		Text: fmt.Sprintf("🏁 Quiz Ended\nYou answered %d of %d questions on %s.\n"+
			"Thanks for practicing! You can start a new quiz anytime or explore other features.",
			s.CurrentIndex, s.Total, s.TopicName),
		Card: helpCard("Start a new quiz", "Show recent threads", "How am I doing?", "Molar mass of H2O"),
	}, nil
}

func (b *Brain) resumeQuiz(ctx context.Context, t *turn) (Envelope, error) {
	headline := "▶️ Quiz Resumed\nWelcome back! Let's continue where you left off."
	if !t.session.Paused {
		headline = "Your quiz is already running."
	} else if _, err := b.quiz.Resume(ctx, t.req.SessionID); err != nil {
		return Envelope{}, fmt.Errorf("resuming quiz: %w", err)
	}

	s, q, err := b.quiz.Current(ctx, t.req.SessionID)
	if err != nil {
		return Envelope{}, fmt.Errorf("loading current question: %w", err)
	}
	t.topic = s.TopicName
	num := s.CurrentIndex + 1
	return Envelope{
		Text: headline + "\n\n" + questionText(q, num, s.Total),
		Card: questionCard(q, num, s.Total),
	}, nil
}

func (b *Brain) handleQuizStart(ctx context.Context, t *turn) (Envelope, error) {
	if t.session.Active {
		t.topic = t.session.TopicName
		return Envelope{
			Text: fmt.Sprintf("You already have a quiz on %s in progress (question %d of %d). "+
				"Say 'resume quiz' to continue or 'end quiz' to start over.",
				t.session.TopicName, t.session.CurrentIndex+1, t.session.Total),
			Card: pausedCard(),
		}, nil
	}

	topics, err := b.quiz.Topics(ctx)
	if err != nil {
		return Envelope{}, err
	}

	topic, ok := quiz.MatchTopic(t.text, topics)
	if !ok {
		return topicList(topics, ""), nil
	}

	res, err := b.quiz.Begin(ctx, t.req.SessionID, topic)
	if errors.Is(err, quiz.ErrNoQuestions) {
		return topicList(topics, fmt.Sprintf("No questions available for %s.", topic.Title)), nil
	}
	if err != nil {
		return Envelope{}, fmt.Errorf("starting quiz: %w", err)
	}

	t.topic = topic.Title
	total := res.Session.Total
	return Envelope{
		Text: fmt.Sprintf("🎯 Starting quiz on %s\nYou'll have %d questions. Good luck!\n\n%s",
			topic.Title, total, questionText(res.Next, 1, total)),
		Card: questionCard(res.Next, 1, total),
	}, nil
}

func topicList(topics []quiz.Topic, lead string) Envelope {
	if len(topics) > maxListedTopics {
		topics = topics[:maxListedTopics]
	}
	var sb strings.Builder
	if lead != "" {
		sb.WriteString(lead + "\n")
	}
	if len(topics) == 0 {
		sb.WriteString("No quiz topics are available yet.")
		return Envelope{Text: sb.String()}
	}
	sb.WriteString("Available quiz topics:")
	for _, tp := range topics {
		sb.WriteString("\n• " + tp.Title)
	}
	sb.WriteString("\nTry saying 'quiz on [topic name]'")
	return Envelope{
		Text: sb.String(),
		Card: &TopicListCard{Type: CardTopicList, Topics: topics},
	}
}
