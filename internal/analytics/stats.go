// Package analytics turns quiz attempts and interaction logs into the
// progress report shown to learners, and persists interaction events
// published by the assistant.
package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/mentari-platform/mentari/internal/quiz"
)

const (
	masteryScore     = 80
	improvementScore = 70
	maxRecommended   = 5
)

// ComputePerformance aggregates attempts in any order. Topics are sorted by
// ascending average, so the weakest comes first and the best last.
func ComputePerformance(attempts []quiz.Attempt) Performance {
	if len(attempts) == 0 {
		return Performance{Topics: []TopicPerformance{}}
	}

	sorted := slices.Clone(attempts)
	slices.SortStableFunc(sorted, func(a, b quiz.Attempt) int {
		return a.CompletedAt.Compare(b.CompletedAt)
	})

	var (
		order   []string
		byTopic = make(map[string][]float64)
		scores  = make([]float64, len(sorted))
	)
	for i, a := range sorted {
		scores[i] = a.ScorePercentage
		if _, seen := byTopic[a.TopicName]; !seen {
			order = append(order, a.TopicName)
		}
		byTopic[a.TopicName] = append(byTopic[a.TopicName], a.ScorePercentage)
	}

	topics := make([]TopicPerformance, 0, len(order))
	for _, name := range order {
		s := byTopic[name]
		tp := TopicPerformance{Topic: name, Average: round1(mean(s)), Attempts: len(s)}
		if len(s) >= 2 {
			half := len(s) / 2
			tp.Improvement = round1(mean(s[half:]) - mean(s[:half]))
		}
		topics = append(topics, tp)
	}
	slices.SortStableFunc(topics, func(a, b TopicPerformance) int {
		return cmp.Compare(a.Average, b.Average)
	})

	p := Performance{
		TotalQuizzes: len(sorted),
		AverageScore: round1(mean(scores)),
		Topics:       topics,
		WeakestTopic: &topics[0],
		BestTopic:    &topics[len(topics)-1],
	}
	if n := len(scores); n >= 4 {
		half := n / 2
		p.ImprovementRate = round1(mean(scores[n-half:]) - mean(scores[:half]))
	}
	return p
}

// ComputeActivity reads activity from message timestamps: distinct active
// days, the busiest hour and the run of consecutive days ending today or
// yesterday.
func ComputeActivity(timestamps []time.Time, now time.Time) Activity {
	if len(timestamps) == 0 {
		return Activity{}
	}

	var (
		hours  [24]int
		days   = make(map[time.Time]bool)
		latest = timestamps[0]
	)
	for _, ts := range timestamps {
		ts = ts.In(now.Location())
		hours[ts.Hour()]++
		days[dayOf(ts)] = true
		if ts.After(latest) {
			latest = ts
		}
	}

	peak := 0
	for h, n := range hours {
		if n > hours[peak] {
			peak = h
		}
	}

	dates := make([]time.Time, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return b.Compare(a) })

	streak := 0
	if !dates[0].Before(dayOf(now).AddDate(0, 0, -1)) {
		streak = 1
		for i := 1; i < len(dates); i++ {
			if !dates[i].Equal(dates[i-1].AddDate(0, 0, -1)) {
				break
			}
			streak++
		}
	}

	return Activity{
		ActiveDays:     len(dates),
		MostActiveTime: fmt.Sprintf("%d:00 - %d:00", peak, (peak+1)%24),
		Streak:         streak,
		LastActive:     &latest,
	}
}

// ComputePatterns infers difficulty preference and weak and mastered
// topics. Mastery needs at least two attempts.
func ComputePatterns(p Performance) Patterns {
	out := Patterns{
		PreferredDifficulty: "medium",
		ImprovementAreas:    []string{},
		MasteredTopics:      []string{},
	}
	if p.TotalQuizzes == 0 {
		return out
	}
	switch {
	case p.AverageScore > 85:
		out.PreferredDifficulty = "challenging"
	case p.AverageScore < 60:
		out.PreferredDifficulty = "foundational"
	}
	for _, t := range p.Topics {
		if t.Average < improvementScore {
			out.ImprovementAreas = append(out.ImprovementAreas, t.Topic)
		}
		if t.Attempts >= 2 && t.Average >= masteryScore {
			out.MasteredTopics = append(out.MasteredTopics, t.Topic)
		}
	}
	return out
}

// Recommend ranks next steps by priority, keeping at most five.
func Recommend(p Performance, a Activity, pat Patterns) []Recommendation {
	var out []Recommendation
	if p.WeakestTopic != nil {
		out = append(out, Recommendation{
			Type:     "practice",
			Priority: PriorityHigh,
			Action:   "Practice " + p.WeakestTopic.Topic,
			Reason:   fmt.Sprintf("Your average is %.0f%%", p.WeakestTopic.Average),
		})
	}

	switch {
	case a.Streak == 0:
		out = append(out, Recommendation{"motivation", PriorityMedium, "Start a new learning streak today", "Consistency is key to mastery"})
	case a.Streak > 7:
		out = append(out, Recommendation{"achievement", PriorityLow, fmt.Sprintf("Keep your %d-day streak going!", a.Streak), "You're building great habits"})
	}

	switch {
	case p.ImprovementRate < 0:
		out = append(out, Recommendation{"support", PriorityHigh, "Review fundamentals", "Let's strengthen your foundation"})
	case p.ImprovementRate > 10:
		out = append(out, Recommendation{"challenge", PriorityMedium, "Try advanced problems", "You're improving rapidly!"})
	}

	if pat.PreferredDifficulty == "foundational" {
		out = append(out, Recommendation{"guidance", PriorityHigh, "Start with tutorial reviews", "Build confidence with guided learning"})
	}

	slices.SortStableFunc(out, func(x, y Recommendation) int {
		return cmp.Compare(priorityRank(x.Priority), priorityRank(y.Priority))
	})
	if len(out) > maxRecommended {
		out = out[:maxRecommended]
	}
	return out
}

func priorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
