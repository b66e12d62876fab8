// Package community reads forum boards and threads for the assistant and
// decides which community view a message asks for.
package community

import (
	"strconv"
	"strings"
)

// View kinds.
const (
	ViewRecent   = "recent"
	ViewPopular  = "popular"
	ViewBoards   = "boards"
	ViewSearch   = "search"
	ViewOverview = "overview"
	ViewHelp     = "help"
)

// Triggers tells the router that a message is about the community.
var Triggers = []string{"forum", "thread", "discussion", "community", "recent threads", "commons"}

var viewKeywords = []struct {
	view     string
	keywords []string
}{
	{ViewRecent, []string{"recent", "latest", "new"}},
	{ViewPopular, []string{"popular", "trending", "hot"}},
	{ViewBoards, []string{"boards", "categories", "sections"}},
	{ViewSearch, []string{"search", "find", "look for"}},
	{ViewOverview, []string{"community", "forum", "commons"}},
}

// Request is the parsed community ask.
type Request struct {
	View string
	Term string
}

// ParseRequest picks the first view whose keyword occurs in message. A
// search also extracts the term after "search for", "look for" or "find".
func ParseRequest(message string) Request {
	lower := strings.ToLower(message)
	for _, vk := range viewKeywords {
		for _, k := range vk.keywords {
			if strings.Contains(lower, k) {
				r := Request{View: vk.view}
				if vk.view == ViewSearch {
					r.Term = searchTerm(lower)
				}
				return r
			}
		}
	}
	return Request{View: ViewHelp}
}

func searchTerm(lower string) string {
	for _, marker := range []string{"search for", "look for", "find", "search"} {
		if _, after, ok := strings.Cut(lower, marker); ok {
			term := strings.NewReplacer(`"`, "", "'", "").Replace(after)
			return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(term), "?"))
		}
	}
	return ""
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
