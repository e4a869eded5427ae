package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/crisisnet/disasterhub/internal/application/services"
	"github.com/crisisnet/disasterhub/internal/core/ports"
)

type cacheStoreMock struct {
	getFn   func(ctx context.Context, key string) (*ports.CacheEntry, bool, error)
	putFn   func(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error
	purgeFn func(ctx context.Context, now time.Time) (int64, error)
}

func (m *cacheStoreMock) Get(ctx context.Context, key string) (*ports.CacheEntry, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, false, nil
}
func (m *cacheStoreMock) Put(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
	if m.putFn != nil {
		return m.putFn(ctx, key, value, ttl)
	}
	return nil
}
func (m *cacheStoreMock) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.purgeFn != nil {
		return m.purgeFn(ctx, now)
	}
	return 0, nil
}

func staticClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGetOrCompute_MissComputesAndStores(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	var stored json.RawMessage
	var storedTTL time.Duration
	store := &cacheStoreMock{
		putFn: func(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
			stored = value
			storedTTL = ttl
			return nil
		},
	}
	svc := services.NewTTLCacheService(store, true, nil).WithClock(staticClock(now))

	calls := 0
	value, err := svc.GetOrCompute(context.Background(), "k", time.Hour, func(ctx context.Context) (json.RawMessage, error) {
		calls++
		return json.RawMessage(`"fresh"`), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(value) != `"fresh"` {
		t.Fatalf("unexpected value: %s", value)
	}
	if calls != 1 {
		t.Fatalf("expected one producer call, got %d", calls)
	}
	if string(stored) != `"fresh"` || storedTTL != time.Hour {
		t.Fatalf("value not stored with TTL: %s ttl=%v", stored, storedTTL)
	}
}

func TestGetOrCompute_TTLBoundaries(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := &ports.CacheEntry{
		Key:       "k",
		Value:     json.RawMessage(`"cached"`),
		ExpiresAt: base.Add(time.Hour),
	}
	store := &cacheStoreMock{
		getFn: func(ctx context.Context, key string) (*ports.CacheEntry, bool, error) {
			return entry, true, nil
		},
	}

	cases := []struct {
		name      string
		elapsed   time.Duration
		wantValue string
		wantCalls int
	}{
		{"fresh at half TTL", 30 * time.Minute, `"cached"`, 0},
		{"expired just past TTL", time.Hour + time.Second, `"recomputed"`, 1},
		{"expired exactly at TTL", time.Hour, `"recomputed"`, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := services.NewTTLCacheService(store, true, nil).WithClock(staticClock(base.Add(tc.elapsed)))
			calls := 0
			value, err := svc.GetOrCompute(context.Background(), "k", time.Hour, func(ctx context.Context) (json.RawMessage, error) {
				calls++
				return json.RawMessage(`"recomputed"`), nil
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(value) != tc.wantValue {
				t.Fatalf("got %s, want %s", value, tc.wantValue)
			}
			if calls != tc.wantCalls {
				t.Fatalf("got %d producer calls, want %d", calls, tc.wantCalls)
			}
		})
	}
}

func TestGetOrCompute_PutFailureReturnsValue(t *testing.T) {
	store := &cacheStoreMock{
		putFn: func(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
			return errors.New("disk full")
		},
	}
	svc := services.NewTTLCacheService(store, true, nil)

	value, err := svc.GetOrCompute(context.Background(), "k", time.Hour, func(ctx context.Context) (json.RawMessage, error) {
		return json.RawMessage(`42`), nil
	})
	if err != nil {
		t.Fatalf("write-back failure must not fail the read: %v", err)
	}
	if string(value) != `42` {
		t.Fatalf("unexpected value: %s", value)
	}
}

func TestGetOrCompute_BypassNeverTouchesStore(t *testing.T) {
	store := &cacheStoreMock{
		getFn: func(ctx context.Context, key string) (*ports.CacheEntry, bool, error) {
			t.Fatal("Get must not be called in bypass mode")
			return nil, false, nil
		},
		putFn: func(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
			t.Fatal("Put must not be called in bypass mode")
			return nil
		},
	}
	svc := services.NewTTLCacheService(store, false, nil)

	value, err := svc.GetOrCompute(context.Background(), "k", time.Hour, func(ctx context.Context) (json.RawMessage, error) {
		return json.RawMessage(`"direct"`), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(value) != `"direct"` {
		t.Fatalf("unexpected value: %s", value)
	}
}

func TestGetOrCompute_ProducerErrorPropagates(t *testing.T) {
	putCalled := false
	store := &cacheStoreMock{
		putFn: func(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
			putCalled = true
			return nil
		},
	}
	svc := services.NewTTLCacheService(store, true, nil)

	wantErr := errors.New("upstream down")
	_, err := svc.GetOrCompute(context.Background(), "k", time.Hour, func(ctx context.Context) (json.RawMessage, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected producer error, got %v", err)
	}
	if putCalled {
		t.Fatal("failures must never be cached")
	}
}

func TestGetOrCompute_StoreErrorPropagates(t *testing.T) {
	wantErr := errors.New("connection refused")
	store := &cacheStoreMock{
		getFn: func(ctx context.Context, key string) (*ports.CacheEntry, bool, error) {
			return nil, false, wantErr
		},
	}
	svc := services.NewTTLCacheService(store, true, nil)

	_, err := svc.GetOrCompute(context.Background(), "k", time.Hour, func(ctx context.Context) (json.RawMessage, error) {
		t.Fatal("producer must not run when the store errors")
		return nil, nil
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestCacheKey_DistinctInputsDistinctKeys(t *testing.T) {
	if services.CacheKey("social", "manila flood") == services.CacheKey("social", "manila floods") {
		t.Fatal("distinct inputs must map to distinct keys")
	}
	if services.CacheKey("social", "x") == services.CacheKey("updates", "x") {
		t.Fatal("distinct prefixes must map to distinct keys")
	}
	if services.CacheKey("social", "x") != services.CacheKey("social", "x") {
		t.Fatal("key derivation must be deterministic")
	}
}
