package repository

import (
	"context"

	"github.com/google/uuid"

	"threadline/internal/domain/thread"
)

type ThreadRepository interface {
	Create(ctx context.Context, t *thread.Thread) error
	GetByID(ctx context.Context, id uuid.UUID) (thread.Thread, error)
	GetActiveByUser(ctx context.Context, userID uuid.UUID) (thread.Thread, error)
	Archive(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]thread.Thread, int64, error)
}

type ProfileRepository interface {
	Upsert(ctx context.Context, p *thread.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (thread.Profile, error)
}
