package brain

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mentari-platform/mentari/internal/calculator"
	"github.com/mentari-platform/mentari/internal/community"
	"github.com/mentari-platform/mentari/internal/quiz"
	"github.com/mentari-platform/mentari/internal/reflection"
	"github.com/mentari-platform/mentari/internal/taxonomy"
)

// Route names, also used as metric labels and in interaction events.
const (
	routeSetup       = "setup"
	RouteGreeting    = "greeting"
	RouteQuizAnswer  = "quiz_answer"
	RouteQuizControl = "quiz_control"
	RouteCalculator  = "calculator"
	RouteQuizStart   = "quiz_start"
	RouteCommunity   = "community"
	RouteReflection  = "reflection"
	RouteProgress    = "progress"
	RouteHelpSeeking = "help_seeking"
	RouteFallback    = "fallback"
)

// Annotation confidence a predicate needs when no lexical trigger fired.
const intentThreshold = 0.75

type route struct {
	name   string
	match  func(t *turn) bool
	handle func(ctx context.Context, t *turn) (Envelope, error)
}

// routeTable is evaluated top to bottom and the first match wins.
func (b *Brain) routeTable() []route {
	return []route{
		{RouteGreeting, isGreeting, b.handleGreeting},
		{RouteQuizAnswer, isQuizAnswer, b.handleQuizAnswer},
		{RouteQuizControl, isQuizControl, b.handleQuizControl},
		{RouteCalculator, isCalculation, b.handleCalculation},
		{RouteQuizStart, isQuizStart, b.handleQuizStart},
		{RouteCommunity, isCommunity, b.handleCommunity},
		{RouteReflection, isReflection, b.handleReflection},
		{RouteProgress, isProgress, b.handleProgress},
		{RouteHelpSeeking, isHelpSeeking, b.handleEncouragement},
		{RouteFallback, func(*turn) bool { return true }, func(ctx context.Context, t *turn) (Envelope, error) {
			return b.handleHelp(ctx, t), nil
		}},
	}
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if taxonomy.ContainsPhrase(text, p) {
			return true
		}
	}
	return false
}

var greetingWords = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening", "greetings"}

func isGreeting(t *turn) bool {
	if containsAny(t.norm, greetingWords) {
		return true
	}
	return t.ann.IntentIs(taxonomy.IntentGreeting, intentThreshold) && !looksLikeAnswer(t.lower)
}

var answerPhrases = []string{"answer:", "answer is", "my answer"}

func looksLikeAnswer(lower string) bool {
	if len(lower) == 1 && lower[0] >= 'a' && lower[0] <= 'z' {
		return true
	}
	for _, p := range answerPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// isQuizAnswer fires only while a quiz takes answers. Beyond the explicit
// answer forms, text that names one of the current choices counts too.
func isQuizAnswer(t *turn) bool {
	if !t.session.Accepting() {
		return false
	}
	if looksLikeAnswer(t.lower) {
		return true
	}
	return t.question != nil && namesChoice(*t.question, t.lower)
}

// namesChoice reports whether lower picks out exactly one choice by its text
// and covers at least half of it.
func namesChoice(q quiz.Question, lower string) bool {
	a := strings.TrimRight(strings.TrimSpace(lower), ".!?")
	if utf8.RuneCountInString(a) < 2 {
		return false
	}
	var match *quiz.Choice
	for i := range q.Choices {
		if strings.Contains(strings.ToLower(q.Choices[i].Text), a) {
			if match != nil {
				return false
			}
			match = &q.Choices[i]
		}
	}
	return match != nil && 2*utf8.RuneCountInString(a) >= utf8.RuneCountInString(match.Text)
}

var (
	pausePhrases  = []string{"pause quiz", "stop quiz"}
	endPhrases    = []string{"end quiz", "quit quiz", "exit quiz"}
	resumePhrases = []string{"resume quiz", "continue quiz"}
)

func isQuizControl(t *turn) bool {
	if !t.session.Active {
		return false
	}
	return containsAny(t.norm, pausePhrases) || containsAny(t.norm, endPhrases) || containsAny(t.norm, resumePhrases)
}

// calcChoice is the calculator a message asks for and the text it gets.
type calcChoice struct {
	name string
	expr string
}

var (
	molarMassPhrases = []string{"molar mass", "calculate molar", "molecular weight", "compound analysis", "formula mass"}
	elementPhrases   = []string{"element info", "atomic number"}
	elementNumberRe  = regexp.MustCompile(`\belement\s+(?:number\s+)?\d{1,3}\b`)
	tellMeAboutRe    = regexp.MustCompile(`\btell me about (?:the element )?([a-z]+)\b`)

	calculusWords = []string{"integrate", "integral", "antiderivative", "differentiate", "derivative", "diff"}

	symbolicKeywords = []struct {
		words []string
		calc  string
	}{
		{[]string{"solve"}, calculator.NameAlgebra},
		{[]string{"simplify", "expand"}, calculator.NameSimplify},
		{[]string{"integrate", "integral", "antiderivative"}, calculator.NameIntegral},
		{[]string{"differentiate", "derivative", "diff"}, calculator.NameDerivative},
	}
)

// pickCalculator decides which calculator, if any, a message is for.
// Symbolic keywords only count when the message carries an expression so
// that "I can't solve this" is left to the help route.
func pickCalculator(t *turn) (calcChoice, bool) {
	if containsAny(t.norm, molarMassPhrases) {
		return calcChoice{calculator.NameMolarMass, t.text}, true
	}
	if containsAny(t.norm, elementPhrases) || elementNumberRe.MatchString(t.lower) {
		return calcChoice{calculator.NameElement, t.text}, true
	}
	if m := tellMeAboutRe.FindStringSubmatch(t.lower); m != nil {
		if _, ok := calculator.ElementByName(m[1]); ok {
			return calcChoice{calculator.NameElement, m[1]}, true
		}
	}
	if calculator.IsGeometry(t.text) {
		return calcChoice{calculator.NameGeometry, t.text}, true
	}
	// "derivative of sin(x)" belongs to calculus, not trigonometry.
	if calculator.IsTrig(t.text) && !containsAny(t.norm, calculusWords) {
		return calcChoice{calculator.NameTrigonometry, t.text}, true
	}
	if calculator.IsArithmetic(t.text) {
		return calcChoice{calculator.NameArithmetic, t.text}, true
	}

	expr := calculator.MathPart(t.text)
	if strings.ContainsAny(expr, "0123456789=^+*/") {
		for _, sk := range symbolicKeywords {
			if containsAny(t.norm, sk.words) {
				return calcChoice{sk.calc, expr}, true
			}
		}
	}

	// Annotation signals: a formula with chemistry intent, or an equation
	// with math intent.
	if t.ann.IntentIs(taxonomy.IntentChemistryHelp, intentThreshold) && t.ann.HasEntity(taxonomy.EntityChemicalFormulas) {
		return calcChoice{calculator.NameMolarMass, t.text}, true
	}
	if t.ann.IntentIs(taxonomy.IntentMathHelp, intentThreshold) && strings.Contains(expr, "=") {
		return calcChoice{calculator.NameAlgebra, expr}, true
	}
	return calcChoice{}, false
}

func isCalculation(t *turn) bool {
	c, ok := pickCalculator(t)
	if ok {
		t.calc = c
	}
	return ok
}

var quizTriggers = []string{
	"quiz on atoms", "quiz on molecules", "quiz on periodic",
	"atoms quiz", "molecules quiz", "periodic quiz",
	"take chemistry quiz", "start chemistry quiz", "chemistry test",
	"start a new quiz", "start quiz", "start a quiz", "take a quiz", "new quiz", "quiz topics",
}

func isQuizStart(t *turn) bool {
	if quiz.IsExplicitRequest(t.text) || containsAny(t.norm, quizTriggers) {
		return true
	}
	return t.ann.IntentIs(taxonomy.IntentQuizRequest, intentThreshold)
}

func isCommunity(t *turn) bool {
	return containsAny(t.norm, community.Triggers)
}

// isReflection leaves "I'm feeling stuck" style messages to the help route
// unless they ask for the journal explicitly.
func isReflection(t *turn) bool {
	req := reflection.ParseRequest(t.text)
	if req.Kind == reflection.KindSpace && containsAny(t.norm, helpPhrases) {
		return false
	}
	if req.Kind != reflection.KindSpace || containsAny(t.norm, reflection.Triggers) {
		return true
	}
	return t.ann.IntentIs(taxonomy.IntentReflection, intentThreshold)
}

var progressPhrases = []string{"how am i doing", "my progress", "what should i learn", "my stats", "stats", "track my", "progress report"}

func isProgress(t *turn) bool {
	return containsAny(t.norm, progressPhrases) || t.ann.IntentIs(taxonomy.IntentProgressInquiry, intentThreshold)
}

var helpPhrases = []string{"dont understand", "confused", "help me", "struggling", "difficult", "stuck", "frustrated", "overwhelmed"}

func isHelpSeeking(t *turn) bool {
	if containsAny(t.norm, helpPhrases) {
		return true
	}
	return t.ann.IntentIs(taxonomy.IntentHelpSeeking, intentThreshold) ||
		t.ann.IntentIs(taxonomy.IntentEncouragementNeeded, intentThreshold)
}
