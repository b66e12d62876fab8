package nlp

import (
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/mentari-platform/mentari/internal/taxonomy"
)

// Example is one labelled training sentence.
type Example struct {
	Text  string
	Label string
}

// NaiveBayes is a multinomial Naive Bayes intent classifier over unigram and
// bigram counts with Laplace smoothing. It trains on first use and is
// read-only afterwards, so a single instance may be shared across goroutines.
type NaiveBayes struct {
	examples []Example
	alpha    float64

	once       sync.Once
	labels     []string
	logPrior   map[string]float64
	counts     map[string]map[string]float64
	totals     map[string]float64
	vocabulary map[string]struct{}
	signal     map[string]struct{}
}

// NewNaiveBayes returns a classifier trained on the default taxonomy corpus.
func NewNaiveBayes() *NaiveBayes {
	return NewNaiveBayesWith(TaxonomyCorpus(), 1.0)
}

// NewNaiveBayesWith returns a classifier over a custom corpus.
func NewNaiveBayesWith(examples []Example, alpha float64) *NaiveBayes {
	if alpha <= 0 {
		alpha = 1.0
	}
	return &NaiveBayes{examples: examples, alpha: alpha}
}

// TaxonomyCorpus builds training sentences from each intent trigger: the
// phrase itself and two help-request framings of it.
func TaxonomyCorpus() []Example {
	var out []Example
	for _, c := range taxonomy.Intents {
		for _, p := range c.Triggers {
			out = append(out,
				Example{Text: p, Label: c.Label},
				Example{Text: "i need help with " + p, Label: c.Label},
				Example{Text: "can you help me " + p, Label: c.Label},
			)
		}
	}
	return out
}

func (nb *NaiveBayes) Method() string { return MethodClassifier }

func (nb *NaiveBayes) train() {
	nb.logPrior = make(map[string]float64)
	nb.counts = make(map[string]map[string]float64)
	nb.totals = make(map[string]float64)
	nb.vocabulary = make(map[string]struct{})

	docs := make(map[string]int)
	spread := make(map[string]map[string]struct{})
	for _, ex := range nb.examples {
		if _, ok := docs[ex.Label]; !ok {
			nb.labels = append(nb.labels, ex.Label)
			nb.counts[ex.Label] = make(map[string]float64)
		}
		docs[ex.Label]++
		for _, f := range features(ex.Text) {
			nb.counts[ex.Label][f]++
			nb.totals[ex.Label]++
			nb.vocabulary[f] = struct{}{}
			if spread[f] == nil {
				spread[f] = make(map[string]struct{})
			}
			spread[f][ex.Label] = struct{}{}
		}
	}
	for _, l := range nb.labels {
		nb.logPrior[l] = math.Log(float64(docs[l]) / float64(len(nb.examples)))
	}

	// Features shared by most labels (the framing words) carry no signal on
	// their own.
	nb.signal = make(map[string]struct{})
	for f, ls := range spread {
		if len(ls)*2 < len(nb.labels) || len(nb.labels) < 2 {
			nb.signal[f] = struct{}{}
		}
	}
}

// Predict returns the most probable intent and the normalized posterior of
// every label. ErrNoSignal is returned when text shares no informative
// feature with the training corpus.
func (nb *NaiveBayes) Predict(text string) (string, map[string]float64, error) {
	nb.once.Do(nb.train)
	if len(nb.labels) == 0 {
		return "", nil, ErrNoSignal
	}

	var known []string
	informative := false
	for _, f := range features(text) {
		if _, ok := nb.vocabulary[f]; ok {
			known = append(known, f)
		}
		if _, ok := nb.signal[f]; ok {
			informative = true
		}
	}
	if !informative {
		return "", nil, ErrNoSignal
	}

	v := float64(len(nb.vocabulary))
	logPost := make(map[string]float64, len(nb.labels))
	maxLog := math.Inf(-1)
	for _, l := range nb.labels {
		lp := nb.logPrior[l]
		denom := nb.totals[l] + nb.alpha*v
		for _, f := range known {
			lp += math.Log((nb.counts[l][f] + nb.alpha) / denom)
		}
		logPost[l] = lp
		if lp > maxLog {
			maxLog = lp
		}
	}

	// softmax with the max subtracted for stability
	var sum float64
	scores := make(map[string]float64, len(logPost))
	for l, lp := range logPost {
		p := math.Exp(lp - maxLog)
		scores[l] = p
		sum += p
	}
	for l := range scores {
		scores[l] /= sum
	}
	return topN(scores, 1)[0].Label, scores, nil
}

// features yields unigrams and bigrams of the normalized text.
func features(text string) []string {
	words := tokenize(text)
	out := make([]string, 0, len(words)*2)
	out = append(out, words...)
	for i := 0; i+1 < len(words); i++ {
		out = append(out, words[i]+" "+words[i+1])
	}
	return out
}

func tokenize(text string) []string {
	return strings.FieldsFunc(taxonomy.Normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
