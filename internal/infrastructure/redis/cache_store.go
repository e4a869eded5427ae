package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

// CacheStore implements ports.CacheStore on Redis. Entries are stored as an
// envelope carrying the explicit expiry alongside the value so Get can return
// the contract's expires_at; the Redis key TTL mirrors it, which makes
// PurgeExpired a no-op (Redis evicts on its own).
type CacheStore struct {
	r      redis.Cmdable
	prefix string
}

type envelope struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func NewCacheStore(r redis.Cmdable, prefix string) *CacheStore {
	return &CacheStore{r: r, prefix: prefix}
}

func (c *CacheStore) namespaced(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

func (c *CacheStore) Get(ctx context.Context, key string) (*ports.CacheEntry, bool, error) {
	raw, err := c.r.Get(ctx, c.namespaced(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperror.Storage("cache get", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false, apperror.Storage("cache entry decode", err)
	}
	return &ports.CacheEntry{Key: key, Value: env.Value, ExpiresAt: env.ExpiresAt}, true, nil
}

func (c *CacheStore) Put(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
	env := envelope{Value: value, ExpiresAt: time.Now().Add(ttl)}
	raw, err := json.Marshal(env)
	if err != nil {
		return apperror.Storage("cache entry encode", err)
	}
	if err := c.r.Set(ctx, c.namespaced(key), raw, ttl).Err(); err != nil {
		return apperror.Storage("cache put", err)
	}
	return nil
}

func (c *CacheStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	// Redis expires keys natively; nothing to sweep.
	return 0, nil
}

var _ ports.CacheStore = (*CacheStore)(nil)
