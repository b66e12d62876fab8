// Package taxonomy holds the fixed educational vocabulary shared by the
// enhancer, the learning context and the router: intents, emotions, entity
// categories and the keyword ladders behind the learning indicators.
//
// Every table is ordered. Order decides ties during scoring and precedence
// in the indicator ladders, so entries must not be reshuffled casually.
package taxonomy

// Category maps a label to the lexical triggers that indicate it.
type Category struct {
	Label    string
	Triggers []string
}

// Intent labels.
const (
	IntentGreeting            = "greeting"
	IntentMathHelp            = "math_help"
	IntentChemistryHelp       = "chemistry_help"
	IntentQuizRequest         = "quiz_request"
	IntentHelpSeeking         = "help_seeking"
	IntentProgressInquiry     = "progress_inquiry"
	IntentReflection          = "reflection"
	IntentEncouragementNeeded = "encouragement_needed"
	IntentGeneralInquiry      = "general_inquiry"
)

// Emotion labels. Positive and Negative are the synthetic sentiment buckets.
const (
	EmotionFrustrated  = "frustrated"
	EmotionConfused    = "confused"
	EmotionExcited     = "excited"
	EmotionConfident   = "confident"
	EmotionOverwhelmed = "overwhelmed"
	EmotionCurious     = "curious"
	EmotionNeutral     = "neutral"
	EmotionPositive    = "positive"
	EmotionNegative    = "negative"
)

// Entity categories.
const (
	EntityMathTopics       = "math_topics"
	EntityChemistryTopics  = "chemistry_topics"
	EntityDifficulty       = "difficulty_indicators"
	EntityTimeReferences   = "time_references"
	EntityChemicalFormulas = "chemical_formulas"
	EntityNumbers          = "numbers"
	EntityMathExpressions  = "math_expressions"
)

var Intents = []Category{
	{IntentGreeting, []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening", "whats up", "how are you"}},
	{IntentMathHelp, []string{"solve", "equation", "algebra", "calculus", "derivative", "integral", "math", "mathematics", "calculate"}},
	{IntentChemistryHelp, []string{"molar mass", "element", "periodic table", "molecule", "compound", "chemistry", "atomic", "chemical"}},
	{IntentQuizRequest, []string{"quiz", "test", "practice", "question", "assessment", "challenge", "exam"}},
	{IntentHelpSeeking, []string{"help", "confused", "struggling", "dont understand", "difficult", "hard", "stuck", "lost"}},
	{IntentProgressInquiry, []string{"progress", "how am i doing", "stats", "performance", "improvement", "growth", "analytics"}},
	{IntentReflection, []string{"reflect", "journal", "feeling", "thinking about", "mood", "emotions", "thoughts"}},
	{IntentEncouragementNeeded, []string{"frustrated", "tired", "overwhelmed", "stressed", "anxious", "worried", "discouraged"}},
}

var Emotions = []Category{
	{EmotionFrustrated, []string{"frustrated", "annoyed", "irritated", "cant figure out", "this is stupid", "hate this", "giving up"}},
	{EmotionConfused, []string{"confused", "lost", "dont understand", "unclear", "what does this mean", "makes no sense"}},
	{EmotionExcited, []string{"excited", "awesome", "great", "love this", "amazing", "fantastic", "cool", "interesting"}},
	{EmotionConfident, []string{"got it", "understand", "makes sense", "easy", "i know", "clear", "obvious"}},
	{EmotionOverwhelmed, []string{"overwhelmed", "too much", "cant handle", "stressed", "pressure", "too many", "exhausted"}},
	{EmotionCurious, []string{"curious", "wonder", "what if", "why", "how does", "interesting", "want to know"}},
}

var Entities = []Category{
	{EntityMathTopics, []string{"algebra", "calculus", "geometry", "trigonometry", "statistics", "probability", "derivatives", "integrals"}},
	{EntityChemistryTopics, []string{"periodic table", "elements", "molecules", "compounds", "reactions", "balancing", "molar mass", "atoms"}},
	{EntityDifficulty, []string{"easy", "hard", "difficult", "challenging", "simple", "complex", "basic", "advanced"}},
	{EntityTimeReferences, []string{"today", "tomorrow", "yesterday", "this week", "next week", "deadline", "due date"}},
}

// Synonyms expands a handful of core terms for the enhanced-keyword signal.
var Synonyms = []Category{
	{"math", []string{"mathematics", "arithmetic", "algebra", "calculus", "geometry"}},
	{"chemistry", []string{"chemical", "molecule", "atom", "element", "compound"}},
	{"help", []string{"assist", "support", "guide", "explain", "teach"}},
	{"confused", []string{"lost", "unclear", "puzzled", "baffled", "perplexed"}},
	{"quiz", []string{"test", "exam", "assessment", "practice", "questions"}},
}

// Lookup returns the triggers registered for label in table.
func Lookup(table []Category, label string) []string {
	for _, c := range table {
		if c.Label == label {
			return c.Triggers
		}
	}
	return nil
}

// Labels returns the labels of table in declaration order.
func Labels(table []Category) []string {
	out := make([]string, len(table))
	for i, c := range table {
		out[i] = c.Label
	}
	return out
}
