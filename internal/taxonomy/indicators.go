package taxonomy

// Ladder is an ordered list of rungs; the first rung whose triggers match
// wins, and Default applies when none do.
type Ladder struct {
	Rungs   []Category
	Default string
}

var StruggleLevel = Ladder{
	Rungs: []Category{
		{"high", []string{"cant", "impossible", "giving up", "hate", "failing"}},
		{"medium", []string{"difficult", "hard", "confused", "struggling"}},
		{"low", []string{"little help", "clarification", "check my work"}},
	},
	Default: "none",
}

var LearningStage = Ladder{
	Rungs: []Category{
		{"introduction", []string{"new to", "never", "first time", "beginning"}},
		{"practice", []string{"practice", "more examples", "similar problems"}},
		{"assessment", []string{"test", "exam", "quiz", "review"}},
		{"advancement", []string{"advanced", "next level", "harder"}},
	},
	Default: "exploration",
}

var HelpType = Ladder{
	Rungs: []Category{
		{"conceptual", []string{"explain", "understand", "what is", "how does"}},
		{"procedural", []string{"solve", "calculate", "find", "answer"}},
		{"example_based", []string{"example", "show me", "demonstrate"}},
		{"verification", []string{"check", "correct", "right", "wrong"}},
	},
	Default: "general",
}

var AcademicPressure = Ladder{
	Rungs: []Category{
		{"high", []string{"deadline", "due tomorrow", "test tomorrow", "grade"}},
		{"medium", []string{"homework", "assignment", "study for"}},
	},
	Default: "low",
}

// Mood keywords used by the cheap free-text mood classifier.
var Moods = Ladder{
	Rungs: []Category{
		{"frustrated", []string{"confused", "difficult", "help", "struggling"}},
		{"confident", []string{"great", "excellent", "understand", "got it"}},
		{"unchallenged", []string{"bored", "easy", "simple"}},
	},
	Default: "neutral",
}

// QuizSignals are the prefixes that make a message an explicit quiz request.
var QuizSignals = []string{"quiz on", "test on", "start quiz on", "give me a quiz on"}

// QuizStopWords are dropped before matching a message against topic titles.
var QuizStopWords = []string{"quiz", "on", "test", "me", "about", "the", "a", "an", "give", "start"}
