package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"

	"threadline/config"
	"threadline/internal/domain/thread"
	appredis "threadline/internal/redis"
	"threadline/internal/repository"
	"threadline/internal/supabase"
	threadline_errors "threadline/pkg/errors"
	"threadline/pkg/logger"
)

// ThreadCache is the slice of the redis cache the service needs.
type ThreadCache interface {
	GetActiveThread(ctx context.Context, userID uuid.UUID) (*appredis.ActiveThreadCache, error)
	SetActiveThread(ctx context.Context, t *thread.Thread) error
	InvalidateActiveThread(ctx context.Context, userID uuid.UUID) error
}

type ThreadService struct {
	cfg      *config.Config
	db       repository.DBTX
	repo     repository.ThreadRepository
	profiles repository.ProfileRepository
	cache    ThreadCache
	logger   *logger.Logger
}

func NewThreadService(cfg *config.Config, db repository.DBTX, repo repository.ThreadRepository, profiles repository.ProfileRepository, cache ThreadCache, l *logger.Logger) *ThreadService {
	return &ThreadService{
		cfg:      cfg,
		db:       db,
		repo:     repo,
		profiles: profiles,
		cache:    cache,
		logger:   l,
	}
}

type EnsureInput struct {
	Force bool
}

type EnsureResult struct {
	Thread  thread.Thread
	Created bool
}

// EnsureThread returns the caller's active thread, creating one when none
// exists. With Force set the current active thread is archived first and a
// fresh one is created.
func (s *ThreadService) EnsureThread(ctx context.Context, userID uuid.UUID, in EnsureInput) (EnsureResult, error) {
	if userID == uuid.Nil {
		return EnsureResult{}, threadline_errors.ErrInvalidInput
	}

	if !in.Force {
		if cached := s.cachedActive(ctx, userID); cached != nil {
			return EnsureResult{Thread: *cached}, nil
		}

		existing, err := s.repo.GetActiveByUser(ctx, userID)
		if err == nil {
			s.cacheActive(ctx, &existing)
			return EnsureResult{Thread: existing}, nil
		}
		if !errors.Is(err, threadline_errors.ErrNotFound) {
			return EnsureResult{}, err
		}
	} else if s.cache != nil {
		// The entry goes stale the moment the archive lands.
		if err := s.cache.InvalidateActiveThread(ctx, userID); err != nil && s.logger != nil {
			s.logger.Warnf("invalidate active thread cache: %s", err)
		}
	}

	created := thread.Thread{
		ID:     uuid.New(),
		UserID: userID,
		Status: thread.StatusActive,
	}

	// Archive (under force) and create land in one transaction, so a failure
	// between the two cannot leave the user without an active thread.
	err := s.inTx(ctx, func(threads repository.ThreadRepository, profiles repository.ProfileRepository) error {
		if in.Force {
			existing, err := threads.GetActiveByUser(ctx, userID)
			if err == nil {
				if err := threads.Archive(ctx, existing.ID); err != nil && !errors.Is(err, threadline_errors.ErrNotFound) {
					return err
				}
			} else if !errors.Is(err, threadline_errors.ErrNotFound) {
				return err
			}
		}
		if err := s.ensureProfile(ctx, profiles, userID); err != nil {
			return err
		}
		return threads.Create(ctx, &created)
	})
	if err != nil {
		// Lost a race against a concurrent ensure; the winner's thread is
		// the active one now.
		if errors.Is(err, threadline_errors.ErrAlreadyExists) {
			existing, getErr := s.repo.GetActiveByUser(ctx, userID)
			if getErr != nil {
				return EnsureResult{}, getErr
			}
			s.cacheActive(ctx, &existing)
			return EnsureResult{Thread: existing}, nil
		}
		return EnsureResult{}, err
	}

	s.cacheActive(ctx, &created)
	return EnsureResult{Thread: created, Created: true}, nil
}

// inTx runs fn against transaction-scoped repositories. Without a database
// handle (tests) the base repositories are used directly.
func (s *ThreadService) inTx(ctx context.Context, fn func(repository.ThreadRepository, repository.ProfileRepository) error) error {
	if s.db == nil {
		return fn(s.repo, s.profiles)
	}
	return repository.WithTx(ctx, s.db, func(tx repository.DBTX) error {
		return fn(repository.NewThreadRepository(tx), repository.NewProfileRepository(tx))
	})
}

func (s *ThreadService) GetThread(ctx context.Context, userID, threadID uuid.UUID) (thread.Thread, error) {
	t, err := s.repo.GetByID(ctx, threadID)
	if err != nil {
		return thread.Thread{}, err
	}
	if t.UserID != userID {
		return thread.Thread{}, threadline_errors.ErrForbidden
	}
	return t, nil
}

func (s *ThreadService) ListThreads(ctx context.Context, userID uuid.UUID, page, limit int) ([]thread.Thread, int64, error) {
	return s.repo.ListByUser(ctx, userID, page, limit)
}

// ensureProfile mirrors the Supabase auth user into the profiles table
// before the first thread is created. The lookup against the GoTrue admin
// API needs the service-role key, so this is the one path that constructs
// the admin client.
func (s *ThreadService) ensureProfile(ctx context.Context, profiles repository.ProfileRepository, userID uuid.UUID) error {
	if _, err := profiles.GetByID(ctx, userID); err == nil {
		return nil
	} else if !errors.Is(err, threadline_errors.ErrNotFound) {
		return err
	}

	profile := thread.Profile{ID: userID}
	if email, ok := EmailFromContext(ctx); ok {
		profile.Email = sql.NullString{String: email, Valid: true}
	} else {
		admin, err := supabase.Admin(s.cfg)
		if err != nil {
			return err
		}
		resp, err := admin.Auth.AdminGetUser(types.AdminGetUserRequest{UserID: userID})
		if err != nil {
			return threadline_errors.ErrUnauthorized
		}
		if resp.Email != "" {
			profile.Email = sql.NullString{String: resp.Email, Valid: true}
		}
	}

	return profiles.Upsert(ctx, &profile)
}

func (s *ThreadService) cachedActive(ctx context.Context, userID uuid.UUID) *thread.Thread {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.GetActiveThread(ctx, userID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warnf("active thread cache read: %s", err)
		}
		return nil
	}
	if cached == nil {
		return nil
	}
	t := thread.Thread{
		ID:        cached.ThreadID,
		UserID:    cached.UserID,
		Status:    thread.StatusActive,
		CreatedAt: cached.CreatedAt,
	}
	if cached.Title != "" {
		t.Title = sql.NullString{String: cached.Title, Valid: true}
	}
	return &t
}

func (s *ThreadService) cacheActive(ctx context.Context, t *thread.Thread) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetActiveThread(ctx, t); err != nil && s.logger != nil {
		s.logger.Warnf("active thread cache write: %s", err)
	}
}
