package core

import (
	"context"
	"time"
)

// GeocodeCacheRepository is the persistent store behind the geocode cache.
// Get returns ErrCacheMiss when the key is absent.
type GeocodeCacheRepository interface {
	Get(ctx context.Context, key string) (CacheEntry, error)
	Touch(ctx context.Context, key string, at time.Time, hitCount int) error
	Upsert(ctx context.Context, key string, coord Coordinate, at time.Time) error
	Delete(ctx context.Context, key string) error
	Count(ctx context.Context) (int, error)
	// EvictOldest removes up to batch entries beyond the keep newest ones.
	EvictOldest(ctx context.Context, keep, batch int) (int64, error)
}

// SessionStore keeps pending conversation context per caller.
type SessionStore interface {
	Save(callerID string, c *ConversationContext)
	Get(callerID string) *ConversationContext
	Delete(callerID string)
}
