package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/crisisnet/disasterhub/internal/core/ports"
)

// MemoryStore is a process-local ports.CacheStore for development and tests.
// Expired entries stay in the map until PurgeExpired runs; Get still returns
// them so the wrapper's freshness check stays the single source of truth.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]ports.CacheEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]ports.CacheEntry),
		now:     time.Now,
	}
}

// WithClock overrides the clock, primarily for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	if now != nil {
		s.now = now
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*ports.CacheEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := entry
	return &out, true, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = ports.CacheEntry{
		Key:       key,
		Value:     append(json.RawMessage(nil), value...),
		ExpiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for key, entry := range s.entries {
		if entry.ExpiresAt.Before(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ ports.CacheStore = (*MemoryStore)(nil)
