package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/domain/apperror"
	"github.com/crisisnet/disasterhub/internal/core/ports"
	"github.com/crisisnet/disasterhub/internal/infrastructure/db"
)

// CacheRepository implements ports.CacheStore on the cache_entries table.
type CacheRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewCacheRepository(database *db.Database, logger *logrus.Logger) ports.CacheStore {
	return &CacheRepository{
		db:     database,
		logger: logger,
	}
}

func (r *CacheRepository) Get(ctx context.Context, key string) (*ports.CacheEntry, bool, error) {
	var entry ports.CacheEntry
	var value []byte
	query := `SELECT key, value, expires_at FROM cache_entries WHERE key = $1`

	err := r.db.DB.QueryRowContext(ctx, query, key).Scan(&entry.Key, &value, &entry.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperror.Storage("cache get", err)
	}
	entry.Value = json.RawMessage(value)
	return &entry, true, nil
}

func (r *CacheRepository) Put(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
	query := `
		INSERT INTO cache_entries (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`

	expiresAt := time.Now().Add(ttl)
	if _, err := r.db.DB.ExecContext(ctx, query, key, []byte(value), expiresAt); err != nil {
		return apperror.Storage("cache put", err)
	}
	return nil
}

func (r *CacheRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM cache_entries WHERE expires_at < $1`, now)
	if err != nil {
		return 0, apperror.Storage("cache purge", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, apperror.Storage("cache purge rows affected", err)
	}
	if removed > 0 && r.logger != nil {
		r.logger.WithField("removed", removed).Debug("purged expired cache entries")
	}
	return removed, nil
}

var _ ports.CacheStore = (*CacheRepository)(nil)
