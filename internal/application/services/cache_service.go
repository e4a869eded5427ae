package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/ports"
)

// TTLCacheService implements the cache-through read path over a CacheStore.
// The cache is an optimization, never a correctness dependency: a failed
// write-back is logged and the freshly computed value is still returned.
type TTLCacheService struct {
	store ports.CacheStore
	// live mirrors the degraded-mode detector's verdict on the store. When
	// false every call goes straight to the producer with no store access.
	live   bool
	logger *logrus.Logger
	now    func() time.Time
}

func NewTTLCacheService(store ports.CacheStore, live bool, logger *logrus.Logger) *TTLCacheService {
	return &TTLCacheService{
		store:  store,
		live:   live && store != nil,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the clock, primarily for tests.
func (s *TTLCacheService) WithClock(now func() time.Time) *TTLCacheService {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *TTLCacheService) GetOrCompute(ctx context.Context, key string, ttl time.Duration, producer func(context.Context) (json.RawMessage, error)) (json.RawMessage, error) {
	if !s.live {
		cacheRequests.WithLabelValues("bypass").Inc()
		return producer(ctx)
	}

	entry, ok, err := s.store.Get(ctx, key)
	if err != nil {
		// Datastore outage is a hard failure, not a silent miss.
		return nil, err
	}
	if ok && entry.ExpiresAt.After(s.now()) {
		cacheRequests.WithLabelValues("hit").Inc()
		return entry.Value, nil
	}

	cacheRequests.WithLabelValues("miss").Inc()
	value, err := producer(ctx)
	if err != nil {
		// Producer failures are never cached; no tombstones.
		return nil, err
	}
	if putErr := s.store.Put(ctx, key, value, ttl); putErr != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"key": key}).WithError(putErr).Warn("cache write-back failed; returning computed value")
		}
	}
	return value, nil
}

// CacheKey builds a collision-safe cache key: a type prefix to namespace
// producers, plus a deterministic encoding of the raw input so every
// semantically distinct input maps to a distinct key.
func CacheKey(prefix, raw string) string {
	return prefix + ":" + base64.RawURLEncoding.EncodeToString([]byte(raw))
}

var _ ports.CacheService = (*TTLCacheService)(nil)
