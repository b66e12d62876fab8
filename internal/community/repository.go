package community

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Reader is the read side of the forum the assistant may consult.
type Reader interface {
	RecentThreads(ctx context.Context, limit int) ([]Thread, error)
	PopularThreads(ctx context.Context, limit int) ([]Thread, error)
	SearchThreads(ctx context.Context, term string, limit int) ([]Thread, error)
	Boards(ctx context.Context) ([]Board, error)
}

type postgresReader struct {
	pool *pgxpool.Pool
}

func NewPostgresReader(pool *pgxpool.Pool) Reader {
	return &postgresReader{pool: pool}
}

const threadColumns = `id, board_slug, title, author, reply_count, view_count, created_at`

func (r *postgresReader) RecentThreads(ctx context.Context, limit int) ([]Thread, error) {
	query := `SELECT ` + threadColumns + ` FROM threads ORDER BY created_at DESC LIMIT $1`
	return r.threads(ctx, "recent", query, limit)
}

func (r *postgresReader) PopularThreads(ctx context.Context, limit int) ([]Thread, error) {
	query := `SELECT ` + threadColumns + ` FROM threads ORDER BY reply_count DESC, view_count DESC, created_at DESC LIMIT $1`
	return r.threads(ctx, "popular", query, limit)
}

func (r *postgresReader) SearchThreads(ctx context.Context, term string, limit int) ([]Thread, error) {
	query := `SELECT ` + threadColumns + ` FROM threads WHERE lower(title) LIKE '%' || lower($2) || '%' ORDER BY created_at DESC LIMIT $1`
	return r.threads(ctx, "matching", query, limit, term)
}

func (r *postgresReader) threads(ctx context.Context, kind, query string, limit int, extra ...any) ([]Thread, error) {
	args := append([]any{limit}, extra...)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s threads: %w", kind, err)
	}
	threads, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Thread])
	if err != nil {
		return nil, fmt.Errorf("scanning %s threads: %w", kind, err)
	}
	return threads, nil
}

func (r *postgresReader) Boards(ctx context.Context) ([]Board, error) {
	rows, err := r.pool.Query(ctx, `SELECT slug, name, description FROM boards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying boards: %w", err)
	}
	boards, err := pgx.CollectRows(rows, pgx.RowToStructByPos[Board])
	if err != nil {
		return nil, fmt.Errorf("scanning boards: %w", err)
	}
	return boards, nil
}
