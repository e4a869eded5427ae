// Package maintenance runs background jobs for the cache store.
package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/ports"
)

const defaultSweepSpec = "@hourly"

// Sweeper periodically removes expired entries from the cache store. Reads
// never depend on the sweep: the cache layer checks freshness on every hit,
// so a delayed or skipped sweep only costs storage, never correctness.
type Sweeper struct {
	store    ports.CacheStore
	cron     *cron.Cron
	now      func() time.Time
	logger   *logrus.Logger
	schedule string
}

// Option customises the Sweeper.
type Option func(*Sweeper)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(s *Sweeper) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithNow overrides the clock used for expiry comparisons.
func WithNow(now func() time.Time) Option {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSchedule overrides the cron specification for the sweep.
func WithSchedule(spec string) Option {
	return func(s *Sweeper) {
		if spec != "" {
			s.schedule = spec
		}
	}
}

// NewSweeper constructs a Sweeper. A nil store disables the sweep entirely.
func NewSweeper(store ports.CacheStore, logger *logrus.Logger, opts ...Option) *Sweeper {
	sweeper := &Sweeper{
		store:    store,
		now:      time.Now,
		logger:   logger,
		schedule: defaultSweepSpec,
	}

	for _, opt := range opts {
		opt(sweeper)
	}

	if sweeper.cron == nil {
		sweeper.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return sweeper
}

// Start registers the sweep job and launches the scheduler.
func (s *Sweeper) Start() error {
	if s.store == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.logger.WithError(err).Warn("Cache sweep failed")
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to complete.
func (s *Sweeper) Stop() context.Context {
	if s.cron == nil {
		return context.Background()
	}
	return s.cron.Stop()
}

// RunOnce executes a single sweep. Used by the scheduler and by tests.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	removed, err := s.store.PurgeExpired(ctx, s.now())
	if err != nil {
		return err
	}
	s.logger.WithField("removed", removed).Debug("Cache sweep completed")
	return nil
}
