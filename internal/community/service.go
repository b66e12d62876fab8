package community

import (
	"cmp"
	"context"
	"slices"
	"strings"
)

const listLimit = 5

// Result is the data behind one community view.
type Result struct {
	Request
	Threads []Thread
	Boards  []Board
}

// Service resolves community requests against a Reader.
type Service struct {
	reader Reader
}

func NewService(reader Reader) *Service {
	return &Service{reader: reader}
}

// Lookup parses message and loads the threads or boards it asks for.
// Overview and help views load nothing. Boards fall back to DefaultBoards
// when none are stored.
func (s *Service) Lookup(ctx context.Context, message string) (Result, error) {
	res := Result{Request: ParseRequest(message)}

	var err error
	switch res.View {
	case ViewRecent:
		res.Threads, err = s.reader.RecentThreads(ctx, listLimit)
	case ViewPopular:
		res.Threads, err = s.reader.PopularThreads(ctx, listLimit)
	case ViewSearch:
		if res.Term != "" {
			res.Threads, err = s.reader.SearchThreads(ctx, res.Term, listLimit)
		}
	case ViewBoards:
		res.Boards, err = s.reader.Boards(ctx)
		if err == nil && len(res.Boards) == 0 {
			res.Boards = DefaultBoards
		}
	}
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// StaticReader serves a fixed set of threads and boards. It backs the CLI
// and tests.
type StaticReader struct {
	Threads    []Thread
	BoardsList []Board
}

func (s *StaticReader) RecentThreads(_ context.Context, limit int) ([]Thread, error) {
	out := slices.Clone(s.Threads)
	slices.SortStableFunc(out, func(a, b Thread) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return head(out, limit), nil
}

func (s *StaticReader) PopularThreads(_ context.Context, limit int) ([]Thread, error) {
	out := slices.Clone(s.Threads)
	slices.SortStableFunc(out, func(a, b Thread) int {
		if c := cmp.Compare(b.ReplyCount, a.ReplyCount); c != 0 {
			return c
		}
		return cmp.Compare(b.ViewCount, a.ViewCount)
	})
	return head(out, limit), nil
}

func (s *StaticReader) SearchThreads(_ context.Context, term string, limit int) ([]Thread, error) {
	term = strings.ToLower(term)
	var out []Thread
	for _, t := range s.Threads {
		if strings.Contains(strings.ToLower(t.Title), term) {
			out = append(out, t)
		}
	}
	return head(out, limit), nil
}

func (s *StaticReader) Boards(context.Context) ([]Board, error) {
	return slices.Clone(s.BoardsList), nil
}

func head(ts []Thread, n int) []Thread {
	if n > 0 && len(ts) > n {
		return ts[:n]
	}
	return ts
}
