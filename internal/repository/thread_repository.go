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

type PostgresThreadRepository struct {
	db DBTX
}

func NewThreadRepository(db DBTX) ThreadRepository {
	return &PostgresThreadRepository{db: db}
}

const threadColumns = "id, user_id, title, status, created_at, updated_at, archived_at"

func (r *PostgresThreadRepository) Create(ctx context.Context, t *thread.Thread) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = thread.StatusActive
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO threads (id, user_id, title, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.UserID, t.Title, t.Status, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return threadline_errors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PostgresThreadRepository) GetByID(ctx context.Context, id uuid.UUID) (thread.Thread, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+threadColumns+` FROM threads WHERE id = $1`, id)
	return scanThread(row)
}

func (r *PostgresThreadRepository) GetActiveByUser(ctx context.Context, userID uuid.UUID) (thread.Thread, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+threadColumns+` FROM threads
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`, userID, thread.StatusActive)
	return scanThread(row)
}

func (r *PostgresThreadRepository) Archive(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE threads
		SET status = $1, archived_at = $2, updated_at = $2
		WHERE id = $3 AND status = $4`,
		thread.StatusArchived, time.Now().UTC(), id, thread.StatusActive,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return threadline_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresThreadRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]thread.Thread, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM threads WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+threadColumns+` FROM threads
		WHERE user_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var threads []thread.Thread
	for rows.Next() {
		var t thread.Thread
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Status, &t.CreatedAt, &t.UpdatedAt, &t.ArchivedAt); err != nil {
			return nil, 0, err
		}
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return threads, total, nil
}

func scanThread(row *sql.Row) (thread.Thread, error) {
	var t thread.Thread
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Status, &t.CreatedAt, &t.UpdatedAt, &t.ArchivedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return thread.Thread{}, threadline_errors.ErrNotFound
		}
		return thread.Thread{}, err
	}
	return t, nil
}
