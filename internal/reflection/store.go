package reflection

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultRecentLimit = 5

func prepare(e *Entry) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
}

// PostgresStore keeps entries in the reflections table.
type PostgresStore struct {
	pool   *pgxpool.Pool
	cipher *Cipher
}

func NewPostgresStore(pool *pgxpool.Pool, cipher *Cipher) *PostgresStore {
	return &PostgresStore{pool: pool, cipher: cipher}
}

func (s *PostgresStore) Save(ctx context.Context, e *Entry) error {
	prepare(e)
	sealed, err := s.cipher.Seal(e.UserID, e.Body)
	if err != nil {
		return fmt.Errorf("sealing reflection: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO reflections (id, user_id, prompt, body_enc, created_at) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.UserID, e.Prompt, sealed, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting reflection: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, prompt, body_enc, created_at FROM reflections
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying reflections: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			sealed string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Prompt, &sealed, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning reflection: %w", err)
		}
		if e.Body, err = s.cipher.Open(e.UserID, sealed); err != nil {
			return nil, fmt.Errorf("opening reflection %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SQLiteStore keeps entries in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	cipher *Cipher
}

// NewSQLiteStore creates the reflections table on db if needed.
func NewSQLiteStore(ctx context.Context, db *sql.DB, cipher *Cipher) (*SQLiteStore, error) {
	query := `
	CREATE TABLE IF NOT EXISTS reflections (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		prompt TEXT NOT NULL DEFAULT '',
		body_enc TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reflections_user ON reflections(user_id, created_at);
	`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return nil, fmt.Errorf("create reflections schema: %w", err)
	}
	return &SQLiteStore{db: db, cipher: cipher}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, e *Entry) error {
	prepare(e)
	sealed, err := s.cipher.Seal(e.UserID, e.Body)
	if err != nil {
		return fmt.Errorf("seal reflection: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reflections (id, user_id, prompt, body_enc, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID.String(), e.UserID, e.Prompt, sealed, e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert reflection: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, prompt, body_enc, created_at FROM reflections
		 WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query reflections: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			id        string
			sealed    string
			createdAt int64
		)
		if err := rows.Scan(&id, &e.UserID, &e.Prompt, &sealed, &createdAt); err != nil {
			return nil, fmt.Errorf("scan reflection: %w", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse reflection id: %w", err)
		}
		if e.Body, err = s.cipher.Open(e.UserID, sealed); err != nil {
			return nil, fmt.Errorf("open reflection %s: %w", id, err)
		}
		e.CreatedAt = time.UnixMilli(createdAt).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
