package health

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/crisisnet/disasterhub/internal/core/ports"
	infraDB "github.com/crisisnet/disasterhub/internal/infrastructure/db"
)

// dbHealthChecker wraps the database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return "database" }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.DB.PingContext(ctx) }

// redisHealthChecker wraps the redis client for health checks.
type redisHealthChecker struct{ client *redis.Client }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// cacheStoreHealthChecker probes the cache store with a read of a key that
// is never written. Absence is healthy; only store errors are reported.
type cacheStoreHealthChecker struct{ store ports.CacheStore }

func (c *cacheStoreHealthChecker) Name() string { return "cache_store" }
func (c *cacheStoreHealthChecker) Check(ctx context.Context) error {
	_, _, err := c.store.Get(ctx, "health:probe")
	return err
}

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client *redis.Client) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// NewCacheStoreHealthChecker creates a health checker for the cache store.
func NewCacheStoreHealthChecker(store ports.CacheStore) ports.HealthChecker {
	return &cacheStoreHealthChecker{store: store}
}
