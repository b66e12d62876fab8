package taxonomy

import "strings"

// Normalize lowercases text and strips apostrophes so that "don't" and
// "dont" hit the same trigger.
func Normalize(text string) string {
	lower := strings.ToLower(text)
	return strings.NewReplacer("'", "", "’", "").Replace(lower)
}

// Hits returns the triggers of c that occur in normalized text.
func (c Category) Hits(normalized string) []string {
	var hits []string
	for _, t := range c.Triggers {
		if ContainsPhrase(normalized, t) {
			hits = append(hits, t)
		}
	}
	return hits
}

// Score is hits over the number of triggers, in [0,1].
func (c Category) Score(normalized string) float64 {
	if len(c.Triggers) == 0 {
		return 0
	}
	return float64(len(c.Hits(normalized))) / float64(len(c.Triggers))
}

// Classify walks the ladder over normalized text.
func (l Ladder) Classify(normalized string) string {
	for _, r := range l.Rungs {
		if len(r.Hits(normalized)) > 0 {
			return r.Label
		}
	}
	return l.Default
}

// ContainsPhrase reports whether phrase occurs in text on word boundaries,
// tolerating a plural "s" or "es" suffix. Short words like "hi" must not
// fire inside "this".
func ContainsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for start := 0; start <= len(text)-len(phrase); {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		i := start + idx
		j := i + len(phrase)
		if i == 0 || !isWordByte(text[i-1]) {
			if wordEnd(text, j) ||
				(strings.HasPrefix(text[j:], "s") && wordEnd(text, j+1)) ||
				(strings.HasPrefix(text[j:], "es") && wordEnd(text, j+2)) {
				return true
			}
		}
		start = i + 1
	}
	return false
}

func wordEnd(text string, j int) bool {
	return j == len(text) || !isWordByte(text[j])
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
