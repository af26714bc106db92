package applewebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samansa/movie-store/pkg/redis"
)

const cacheScope = "apple_notification"

// ProcessedCache remembers notification ids whose ledger entry is durable so
// redeliveries can be acknowledged without touching the database. It is a
// hint only: a miss always falls through to the ledger.
type ProcessedCache struct {
	store redis.IdempotencyStore
	ttl   time.Duration
}

func NewProcessedCache(store redis.IdempotencyStore, ttl time.Duration) (*ProcessedCache, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	return &ProcessedCache{store: store, ttl: ttl}, nil
}

// Seen reports whether notificationUUID was marked.
func (c *ProcessedCache) Seen(ctx context.Context, notificationUUID string) (bool, error) {
	if notificationUUID == "" {
		return false, errors.New("notification uuid is required")
	}
	found, err := c.store.Exists(ctx, c.key(notificationUUID))
	if err != nil {
		return false, fmt.Errorf("check processed key: %w", err)
	}
	return found, nil
}

// Mark records notificationUUID. Marking twice is not an error.
func (c *ProcessedCache) Mark(ctx context.Context, notificationUUID string) error {
	if notificationUUID == "" {
		return errors.New("notification uuid is required")
	}
	if _, err := c.store.SetNX(ctx, c.key(notificationUUID), "1", c.ttl); err != nil {
		return fmt.Errorf("set processed key: %w", err)
	}
	return nil
}

func (c *ProcessedCache) key(notificationUUID string) string {
	return c.store.IdempotencyKey(cacheScope, notificationUUID)
}
