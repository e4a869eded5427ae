package ports

import "context"

// HealthChecker probes one dependency. A nil error means healthy.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
