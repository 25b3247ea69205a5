package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"threadline/internal/domain/thread"
	threadline_errors "threadline/pkg/errors"
)

type PostgresProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) ProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Upsert(ctx context.Context, p *thread.Profile) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, updated_at = EXCLUDED.updated_at`,
		p.ID, p.Email, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (thread.Profile, error) {
	var p thread.Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, created_at, updated_at FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.Email, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return thread.Profile{}, threadline_errors.ErrNotFound
		}
		return thread.Profile{}, err
	}
	return p, nil
}
