package community

import "time"

// Board is a discussion category.
type Board struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Thread is a forum thread as the assistant lists it.
type Thread struct {
	ID         int64     `json:"id"`
	BoardSlug  string    `json:"board_slug"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	ReplyCount int       `json:"reply_count"`
	ViewCount  int       `json:"view_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// URL is the thread's page on the community site.
func (t Thread) URL() string {
	return "/community/thread/" + itoa(t.ID) + "/"
}

// DefaultBoards are shown when no boards are stored.
var DefaultBoards = []Board{
	{"general", "General Discussion", "Open discussions about learning and education"},
	{"math-science", "Math & Science", "Discussions about mathematics and scientific topics"},
	{"chemistry", "Chemistry Corner", "All things chemistry, from basics to advanced topics"},
	{"study-groups", "Study Groups", "Form and join study groups with fellow learners"},
	{"qa", "Q&A Hub", "Ask questions and get help from the community"},
	{"resources", "Resources & Tips", "Share learning resources and study tips"},
}
