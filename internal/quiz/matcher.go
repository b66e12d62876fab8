package quiz

import (
	"slices"
	"strings"

	"github.com/mentari-platform/mentari/internal/taxonomy"
)

// IsExplicitRequest reports whether message opens with a quiz signal such
// as "quiz on".
func IsExplicitRequest(message string) bool {
	m := strings.ToLower(strings.TrimSpace(message))
	for _, sig := range taxonomy.QuizSignals {
		if strings.HasPrefix(m, sig) {
			return true
		}
	}
	return false
}

// MatchTopic finds the topic an explicit quiz request names. A topic matches
// when a content word of the message occurs in its title, or when a title
// word longer than three letters occurs in the message. Topics are tried in
// order and the first match wins.
func MatchTopic(message string, topics []Topic) (Topic, bool) {
	if !IsExplicitRequest(message) {
		return Topic{}, false
	}

	m := strings.ToLower(strings.TrimSpace(message))
	var content []string
	for _, w := range strings.Fields(m) {
		w = strings.Trim(w, "?!.,")
		if w != "" && !slices.Contains(taxonomy.QuizStopWords, w) {
			content = append(content, w)
		}
	}

	for _, t := range topics {
		title := strings.ToLower(t.Title)
		for _, w := range content {
			if strings.Contains(title, w) {
				return t, true
			}
		}
		for _, tw := range strings.Fields(title) {
			if len(tw) > 3 && strings.Contains(m, tw) {
				return t, true
			}
		}
	}
	return Topic{}, false
}
