package ports

import (
	"context"
	"encoding/json"
	"time"
)

// CacheEntry is one row of the TTL cache store.
type CacheEntry struct {
	Key       string          `json:"key" db:"key"`
	Value     json.RawMessage `json:"value" db:"value"`
	ExpiresAt time.Time       `json:"expires_at" db:"expires_at"`
}

// CacheStore is the durable key -> (value, expiry) mapping behind the
// cache-through layer. Implementations must surface storage failures as
// apperror.KindStorage errors rather than masking them as misses; the
// wrapper decides how to degrade. At most one entry exists per key.
type CacheStore interface {
	// Get returns the entry for key. ok=false (with nil error) when absent.
	// Expired entries are still returned; freshness is the caller's check.
	Get(ctx context.Context, key string) (*CacheEntry, bool, error)
	// Put upserts key with expires_at = now + ttl.
	Put(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error
	// PurgeExpired deletes entries whose expiry precedes now and reports how
	// many were removed. Idempotent and safe to run alongside Get/Put.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// CacheService is the cache-through wrapper consumed by enrichment routes:
// return the cached value when fresh, otherwise invoke the producer, store
// its result best-effort, and return it.
type CacheService interface {
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, producer func(context.Context) (json.RawMessage, error)) (json.RawMessage, error)
}
