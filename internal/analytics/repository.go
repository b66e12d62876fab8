package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LogStore persists interaction logs and reads activity back.
type LogStore interface {
	Insert(ctx context.Context, log *InteractionLog) error
	ActivitySince(ctx context.Context, userID string, since time.Time) ([]time.Time, error)
}

// Repository handles interaction_logs PostgreSQL operations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new interaction log Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert persists a single interaction log entry. Replayed events with an
// id that is already stored are ignored.
func (r *Repository) Insert(ctx context.Context, log *InteractionLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO interaction_logs (id, user_id, session_id, route, intent, emotion, fallback, failed, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO NOTHING`,
		log.ID, log.UserID, log.SessionID, log.Route, log.Intent, log.Emotion,
		log.Fallback, log.Failed, log.DurationMS, log.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting interaction log: %w", err)
	}
	return nil
}

// ActivitySince returns the timestamps of userID's turns from since onward,
// newest first.
func (r *Repository) ActivitySince(ctx context.Context, userID string, since time.Time) ([]time.Time, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT created_at FROM interaction_logs
		 WHERE user_id = $1 AND created_at >= $2
		 ORDER BY created_at DESC`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("querying interaction activity: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("scanning interaction activity: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// RouteCount is the number of turns handled by one route.
type RouteCount struct {
	Route string `json:"route"`
	Count int64  `json:"count"`
}

// RouteCounts aggregates turns per route from since onward, busiest first.
func (r *Repository) RouteCounts(ctx context.Context, since time.Time) ([]RouteCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT route, COUNT(*) FROM interaction_logs
		 WHERE created_at >= $1
		 GROUP BY route
		 ORDER BY COUNT(*) DESC, route`, since)
	if err != nil {
		return nil, fmt.Errorf("counting routes: %w", err)
	}
	defer rows.Close()

	var out []RouteCount
	for rows.Next() {
		var rc RouteCount
		if err := rows.Scan(&rc.Route, &rc.Count); err != nil {
			return nil, fmt.Errorf("scanning route count: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}
