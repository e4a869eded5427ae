package ports

import (
	"context"
	"time"
)

// RateLimitRepository stores fixed-window request counters.
type RateLimitRepository interface {
	// IncrementWindow bumps the counter for clientKey in the current window
	// and returns the new count plus the window start.
	IncrementWindow(ctx context.Context, clientKey string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error)
}

// RateLimiterService applies a per-client request budget. Implementations
// fail open: a broken counter store must not take the API down with it.
type RateLimiterService interface {
	Allow(ctx context.Context, clientKey string) (allowed bool, remaining int, limit int, reset time.Time, err error)
}
