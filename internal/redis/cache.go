package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"threadline/internal/domain/thread"
)

// Cache key patterns:
// - thread:active:{user_id} - active thread cache, refreshed on ensure

// CacheConfig contains configuration for caching
type CacheConfig struct {
	ActiveThreadTTL time.Duration // TTL for the active-thread cache (default 5m)
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ActiveThreadTTL: 5 * time.Minute,
	}
}

// CacheStore handles caching in Redis
type CacheStore struct {
	client *goredis.Client
	config CacheConfig
}

// NewCacheStore creates a new cache store
func NewCacheStore(client *goredis.Client, config CacheConfig) *CacheStore {
	return &CacheStore{
		client: client,
		config: config,
	}
}

// ActiveThreadCache is the cached projection of a user's active thread.
type ActiveThreadCache struct {
	ThreadID  uuid.UUID `json:"thread_id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func activeThreadKey(userID uuid.UUID) string {
	return fmt.Sprintf("thread:active:%s", userID.String())
}

// GetActiveThread retrieves a user's active thread from cache.
// Returns (nil, nil) on a cache miss.
func (c *CacheStore) GetActiveThread(ctx context.Context, userID uuid.UUID) (*ActiveThreadCache, error) {
	data, err := c.client.Get(ctx, activeThreadKey(userID)).Result()
	if err == goredis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}

	var cached ActiveThreadCache
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// SetActiveThread stores a user's active thread in cache.
func (c *CacheStore) SetActiveThread(ctx context.Context, t *thread.Thread) error {
	cached := ActiveThreadCache{
		ThreadID:  t.ID,
		UserID:    t.UserID,
		Title:     t.Title.String,
		CreatedAt: t.CreatedAt,
	}
	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeThreadKey(t.UserID), data, c.config.ActiveThreadTTL).Err()
}

// InvalidateActiveThread removes a user's active thread from cache.
// Called when a forced ensure archives the current thread.
func (c *CacheStore) InvalidateActiveThread(ctx context.Context, userID uuid.UUID) error {
	return c.client.Del(ctx, activeThreadKey(userID)).Err()
}
