package questionbank

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentari-platform/mentari/internal/quiz"
)

const defaultAttemptLimit = 100

// AttemptStore records and lists quiz attempts.
type AttemptStore interface {
	quiz.AttemptRecorder
	quiz.AttemptLister
}

type postgresAttempts struct {
	pool *pgxpool.Pool
}

func NewPostgresAttempts(pool *pgxpool.Pool) AttemptStore {
	return &postgresAttempts{pool: pool}
}

func (r *postgresAttempts) RecordAttempt(ctx context.Context, a quiz.Attempt) error {
	query := `
		INSERT INTO quiz_attempts (id, user_id, topic_id, topic_name, score_percentage, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, a.ID, a.UserID, a.TopicID, a.TopicName, a.ScorePercentage, a.CompletedAt)
	if err != nil {
		return fmt.Errorf("inserting quiz attempt: %w", err)
	}
	return nil
}

func (r *postgresAttempts) ListAttempts(ctx context.Context, userID string, limit int) ([]quiz.Attempt, error) {
	if limit <= 0 {
		limit = defaultAttemptLimit
	}
	query := `
		SELECT id, user_id, topic_id, topic_name, score_percentage, completed_at
		FROM quiz_attempts
		WHERE user_id = $1
		ORDER BY completed_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []quiz.Attempt
	for rows.Next() {
		var a quiz.Attempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.TopicID, &a.TopicName, &a.ScorePercentage, &a.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning quiz attempt row: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// SQLiteAttempts stores attempts in a local SQLite database.
type SQLiteAttempts struct {
	db *sql.DB
}

// NewSQLiteAttempts creates the attempts table on db if needed.
func NewSQLiteAttempts(ctx context.Context, db *sql.DB) (*SQLiteAttempts, error) {
	query := `
	CREATE TABLE IF NOT EXISTS quiz_attempts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		topic_id INTEGER NOT NULL,
		topic_name TEXT NOT NULL,
		score_percentage REAL NOT NULL,
		completed_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user ON quiz_attempts(user_id, completed_at);
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return nil, fmt.Errorf("create attempts schema: %w", err)
	}
	return &SQLiteAttempts{db: db}, nil
}

func (s *SQLiteAttempts) RecordAttempt(ctx context.Context, a quiz.Attempt) error {
	query := `
	INSERT INTO quiz_attempts (id, user_id, topic_id, topic_name, score_percentage, completed_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		a.ID.String(), a.UserID, a.TopicID, a.TopicName, a.ScorePercentage, a.CompletedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert quiz attempt: %w", err)
	}
	return nil
}

func (s *SQLiteAttempts) ListAttempts(ctx context.Context, userID string, limit int) ([]quiz.Attempt, error) {
	if limit <= 0 {
		limit = defaultAttemptLimit
	}
	query := `
		SELECT id, user_id, topic_id, topic_name, score_percentage, completed_at
		FROM quiz_attempts
		WHERE user_id = ?
		ORDER BY completed_at DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []quiz.Attempt
	for rows.Next() {
		var (
			a           quiz.Attempt
			id          string
			completedAt int64
		)
		if err := rows.Scan(&id, &a.UserID, &a.TopicID, &a.TopicName, &a.ScorePercentage, &completedAt); err != nil {
			return nil, fmt.Errorf("scan quiz attempt row: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse attempt id: %w", err)
		}
		a.ID = parsed
		a.CompletedAt = time.UnixMilli(completedAt).UTC()
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
