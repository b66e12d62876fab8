package brain

import (
	"context"
	"fmt"
	"strings"

	"github.com/mentari-platform/mentari/internal/community"
)

func communityHelp() Envelope {
	return Envelope{
		Text: "Visit The Commons to join discussions! 💬\n" +
			"• View recent threads\n" +
			"• Join popular discussions\n" +
			"• Explore topic boards\n" +
			"• Search for a thread",
		Card: actionsCard(CardCommunityHelp,
			Action{Text: "Recent Threads", Action: "show recent threads"},
			Action{Text: "Popular Discussions", Action: "show popular threads"},
			Action{Text: "Discussion Boards", Action: "show discussion boards"},
			Action{Text: "Visit Community", URL: "/community/"},
		),
	}
}

func (b *Brain) handleCommunity(ctx context.Context, t *turn) (Envelope, error) {
	if b.community == nil {
		return communityHelp(), nil
	}
	res, err := b.community.Lookup(ctx, t.text)
	if err != nil {
		return Envelope{}, fmt.Errorf("looking up community: %w", err)
	}

	switch res.View {
	case community.ViewRecent:
		return threadList(res, "💬 Recent Community Threads\nHere are the latest discussions in The Commons:"), nil
	case community.ViewPopular:
		return threadList(res, "🔥 Popular discussions in The Commons:"), nil
	case community.ViewSearch:
		if res.Term == "" {
			return Envelope{Text: `What should I search for? Try "search for titration".`}, nil
		}
		if len(res.Threads) == 0 {
			return Envelope{
				Text: fmt.Sprintf("I couldn't find any threads about %q. Why not start one?", res.Term),
				Card: communityHelp().Card,
			}, nil
		}
		return threadList(res, fmt.Sprintf("🔎 Threads matching %q:", res.Term)), nil
	case community.ViewBoards:
		return boardList(res), nil
	}
	return communityHelp(), nil
}

func threadList(res community.Result, headline string) Envelope {
	if len(res.Threads) == 0 {
		return Envelope{
			Text: "No discussions yet. Be the first to start a thread in The Commons!",
			Card: communityHelp().Card,
		}
	}
	var sb strings.Builder
	sb.WriteString(headline)
	for _, th := range res.Threads {
		fmt.Fprintf(&sb, "\n• %s by %s (%d replies)", th.Title, th.Author, th.ReplyCount)
	}
	return Envelope{Text: sb.String(), Card: threadCard(res.View, res.Threads)}
}

func boardList(res community.Result) Envelope {
	var sb strings.Builder
	sb.WriteString("📋 Available Discussion Boards:")
	for _, bd := range res.Boards {
		fmt.Fprintf(&sb, "\n• %s: %s", bd.Name, bd.Description)
	}
	return Envelope{Text: sb.String(), Card: &BoardListCard{Type: CardBoardList, Boards: res.Boards}}
}
