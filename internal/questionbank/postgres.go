package questionbank

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentari-platform/mentari/internal/quiz"
)

// PostgresBank reads topics, questions and choices from PostgreSQL.
type PostgresBank struct {
	pool *pgxpool.Pool
}

func NewPostgresBank(pool *pgxpool.Pool) *PostgresBank {
	return &PostgresBank{pool: pool}
}

func (b *PostgresBank) ListTopics(ctx context.Context) ([]quiz.Topic, error) {
	query := `
		SELECT t.id, t.title
		FROM topics t
		WHERE EXISTS (SELECT 1 FROM questions q WHERE q.topic_id = t.id)
		ORDER BY t.id`

	rows, err := b.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	var topics []quiz.Topic
	for rows.Next() {
		var t quiz.Topic
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return nil, fmt.Errorf("scanning topic row: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (b *PostgresBank) QuestionIDs(ctx context.Context, topicID int64) ([]int64, error) {
	query := `SELECT id FROM questions WHERE topic_id = $1 ORDER BY id`

	rows, err := b.pool.Query(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("listing question ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scanning question ids: %w", err)
	}
	return ids, nil
}

func (b *PostgresBank) Question(ctx context.Context, id int64) (*quiz.Question, error) {
	query := `SELECT id, topic_id, text, explanation FROM questions WHERE id = $1`

	q := &quiz.Question{}
	err := b.pool.QueryRow(ctx, query, id).Scan(&q.ID, &q.TopicID, &q.Text, &q.Explanation)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying question by id: %w", err)
	}

	rows, err := b.pool.Query(ctx,
		`SELECT id, text, is_correct FROM choices WHERE question_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("listing choices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c quiz.Choice
		if err := rows.Scan(&c.ID, &c.Text, &c.IsCorrect); err != nil {
			return nil, fmt.Errorf("scanning choice row: %w", err)
		}
		q.Choices = append(q.Choices, c)
	}
	return q, rows.Err()
}

// SeedResult counts what Seed wrote.
type SeedResult struct {
	Topics    int
	Questions int
}

// Seed copies every topic and question from src into PostgreSQL in one
// transaction. Topics are matched by title and their questions replaced.
func Seed(ctx context.Context, pool *pgxpool.Pool, src quiz.Bank) (SeedResult, error) {
	var res SeedResult

	topics, err := src.ListTopics(ctx)
	if err != nil {
		return res, fmt.Errorf("reading source topics: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range topics {
		var topicID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO topics (title) VALUES ($1)
			ON CONFLICT (title) DO UPDATE SET title = EXCLUDED.title
			RETURNING id`, t.Title).Scan(&topicID)
		if err != nil {
			return res, fmt.Errorf("upserting topic %q: %w", t.Title, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE topic_id = $1`, topicID); err != nil {
			return res, fmt.Errorf("clearing questions for %q: %w", t.Title, err)
		}

		ids, err := src.QuestionIDs(ctx, t.ID)
		if err != nil {
			return res, fmt.Errorf("reading source pool for %q: %w", t.Title, err)
		}
		for _, id := range ids {
			q, err := src.Question(ctx, id)
			if err != nil {
				return res, fmt.Errorf("reading source question %d: %w", id, err)
			}
			if q == nil {
				continue
			}
			if err := insertQuestion(ctx, tx, topicID, q); err != nil {
				return res, err
			}
			res.Questions++
		}
		res.Topics++
	}

	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("committing seed: %w", err)
	}
	return res, nil
}

func insertQuestion(ctx context.Context, tx pgx.Tx, topicID int64, q *quiz.Question) error {
	var questionID int64
	err := tx.QueryRow(ctx, `
		INSERT INTO questions (topic_id, text, explanation)
		VALUES ($1, $2, $3)
		RETURNING id`, topicID, q.Text, q.Explanation).Scan(&questionID)
	if err != nil {
		return fmt.Errorf("inserting question: %w", err)
	}

	batch := &pgx.Batch{}
	for i, c := range q.Choices {
		batch.Queue(`INSERT INTO choices (question_id, position, text, is_correct) VALUES ($1, $2, $3, $4)`,
			questionID, i, c.Text, c.IsCorrect)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting choices: %w", err)
	}
	return nil
}
