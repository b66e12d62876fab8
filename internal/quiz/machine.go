// Package quiz implements the multi-step quiz as a finite state machine over
// a plain Session value, plus the orchestration that loads questions and
// persists sessions and attempts around it.
package quiz

import (
	"math/rand/v2"
	"strings"
)

// DefaultMaxQuestions is the quiz length when a topic has enough questions.
const DefaultMaxQuestions = 5

// Start shuffles pool and opens a session over at most limit questions. It
// returns false when the pool is empty.
func Start(topic Topic, pool []int64, rng *rand.Rand, limit int) (Session, bool) {
	if len(pool) == 0 {
		return Session{}, false
	}
	if limit <= 0 {
		limit = DefaultMaxQuestions
	}

	queue := append([]int64(nil), pool...)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
	if len(queue) > limit {
		queue = queue[:limit]
	}

	return Session{
		Active:        true,
		TopicID:       topic.ID,
		TopicName:     topic.Title,
		QuestionQueue: queue,
		Total:         len(queue),
	}, true
}

// ApplyAnswer grades answer against q, the question at the session's
// current index. An answer that names no choice leaves the session
// untouched with Resolved false. Finishing the last question returns the
// zero session with Completed set.
func ApplyAnswer(s Session, q Question, answer string) (Session, Feedback) {
	fb := Feedback{TopicID: s.TopicID, TopicName: s.TopicName, Total: s.Total}
	if !s.Accepting() || s.CurrentIndex >= s.Total {
		fb.Score = s.Score
		return s, fb
	}

	choice := ResolveChoice(q, answer)
	if choice == nil {
		fb.Score = s.Score
		return s, fb
	}

	next := s
	next.QuestionQueue = append([]int64(nil), s.QuestionQueue...)
	fb.Resolved = true
	fb.Selected = choice.Text
	fb.Explanation = q.Explanation
	if correct := q.CorrectChoice(); correct != nil {
		fb.CorrectAnswer = correct.Text
	}

	if choice.IsCorrect {
		fb.Correct = true
		next.Score++
		next.IncorrectStreak = 0
	} else {
		next.IncorrectStreak++
	}
	next.CurrentIndex++

	fb.Score = next.Score
	fb.IncorrectStreak = next.IncorrectStreak
	if next.CurrentIndex >= next.Total {
		fb.Completed = true
		fb.Percentage = Percentage(next.Score, next.Total)
		return End(next), fb
	}
	return next, fb
}

// ResolveChoice maps free text onto one of q's choices. A single letter is
// read positionally; anything else is a case-insensitive substring of a
// choice's text, first match wins.
func ResolveChoice(q Question, answer string) *Choice {
	a := strings.ToLower(strings.TrimSpace(answer))
	for _, prefix := range []string{"answer:", "my answer is"} {
		if strings.HasPrefix(a, prefix) {
			a = strings.TrimSpace(strings.TrimPrefix(a, prefix))
		}
	}
	a = strings.TrimRight(a, ".!")
	if a == "" {
		return nil
	}

	if len(a) == 1 {
		c := a[0]
		if c < 'a' || c > 'z' {
			return nil
		}
		i := int(c - 'a')
		if i >= len(q.Choices) {
			return nil
		}
		return &q.Choices[i]
	}

	for i := range q.Choices {
		if strings.Contains(strings.ToLower(q.Choices[i].Text), a) {
			return &q.Choices[i]
		}
	}
	return nil
}

// Letter returns the display letter for the choice at index i.
func Letter(i int) string {
	return string(rune('A' + i))
}

// Pause sets the paused flag on an active session.
func Pause(s Session) Session {
	if s.Active {
		s.Paused = true
	}
	return s
}

// Resume clears the paused flag.
func Resume(s Session) Session {
	s.Paused = false
	return s
}

// End discards the session.
func End(Session) Session {
	return Session{}
}

// Percentage is score over total as a 0..100 value; zero when total is zero.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}
