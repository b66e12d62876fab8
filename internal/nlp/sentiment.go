package nlp

// General-valence lexicon. Words that already name an emotion category are
// left out so sentiment never masks the more specific signal.
var (
	positiveWords = map[string]float64{
		"good": 0.7, "nice": 0.6, "happy": 0.8, "glad": 0.5, "enjoy": 0.5,
		"enjoying": 0.5, "fun": 0.5, "wonderful": 1.0, "best": 1.0, "love": 0.5,
		"like": 0.3, "thanks": 0.2, "thank": 0.2, "helpful": 0.5, "perfect": 1.0,
		"brilliant": 0.9, "excellent": 1.0, "yay": 0.6,
	}
	negativeWords = map[string]float64{
		"bad": 0.7, "terrible": 1.0, "awful": 1.0, "horrible": 1.0, "worst": 1.0,
		"sad": 0.5, "angry": 0.6, "boring": 0.6, "bored": 0.5, "ugh": 0.5,
		"useless": 0.6, "fail": 0.5, "failed": 0.5, "failing": 0.5, "dumb": 0.6,
		"hopeless": 0.8, "miserable": 0.9,
	}
	negators = map[string]bool{"not": true, "no": true, "never": true, "dont": true, "isnt": true, "wasnt": true}
)

// Polarity returns a score in [-1,1] averaged over lexicon hits, with a
// preceding negator flipping the sign of the next hit. ok is false when no
// lexicon word occurs.
func Polarity(message string) (float64, bool) {
	var sum float64
	var n int
	negate := false
	for _, w := range tokenize(message) {
		if negators[w] {
			negate = true
			continue
		}
		v, hit := positiveWords[w]
		if !hit {
			if nv, ok := negativeWords[w]; ok {
				v, hit = -nv, true
			}
		}
		if hit {
			if negate {
				v = -v * 0.5
			}
			sum += v
			n++
		}
		negate = false
	}
	if n == 0 {
		return 0, false
	}
	p := sum / float64(n)
	if p > 1 {
		p = 1
	} else if p < -1 {
		p = -1
	}
	return p, true
}
