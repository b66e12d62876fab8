package learners

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, l *Learner) error
	GetByID(ctx context.Context, id uuid.UUID) (*Learner, error)
	GetByEmail(ctx context.Context, email string) (*Learner, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectLearner = `SELECT id, email, password_hash, display_name, created_at, updated_at FROM learners`

func (r *postgresRepository) Create(ctx context.Context, l *Learner) error {
	query := `
		INSERT INTO learners (id, email, password_hash, display_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		l.ID, l.Email, l.PasswordHash, l.DisplayName, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting learner: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Learner, error) {
	l, err := scanLearner(r.pool.QueryRow(ctx, selectLearner+` WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("querying learner by id: %w", err)
	}
	return l, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*Learner, error) {
	l, err := scanLearner(r.pool.QueryRow(ctx, selectLearner+` WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("querying learner by email: %w", err)
	}
	return l, nil
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM learners WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}
	return exists, nil
}

func scanLearner(row pgx.Row) (*Learner, error) {
	l := &Learner{}
	err := row.Scan(&l.ID, &l.Email, &l.PasswordHash, &l.DisplayName, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}
