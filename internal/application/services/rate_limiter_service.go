package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/ports"
)

// RateLimiterService applies one static fixed-window policy per client key.
type RateLimiterService struct {
	repo      ports.RateLimitRepository
	limit     int
	window    time.Duration
	keyPrefix string
	logger    *logrus.Logger
}

type RateLimiterConfig struct {
	RequestsPerMinute int
	Window            time.Duration
	KeyPrefix         string
}

func NewRateLimiterService(repo ports.RateLimitRepository, cfg *RateLimiterConfig, logger *logrus.Logger) *RateLimiterService {
	limit := 120
	window := time.Minute
	keyPrefix := "ratelimit:client"
	if cfg != nil {
		if cfg.RequestsPerMinute > 0 {
			limit = cfg.RequestsPerMinute
		}
		if cfg.Window > 0 {
			window = cfg.Window
		}
		if cfg.KeyPrefix != "" {
			keyPrefix = cfg.KeyPrefix
		}
	}
	return &RateLimiterService{repo: repo, limit: limit, window: window, keyPrefix: keyPrefix, logger: logger}
}

func (s *RateLimiterService) Allow(ctx context.Context, clientKey string) (bool, int, int, time.Time, error) {
	ttl := s.window * 2 // retain overlap window
	count, windowStart, err := s.repo.IncrementWindow(ctx, clientKey, s.window, s.keyPrefix, ttl)
	reset := windowStart.Add(s.window)
	if err != nil {
		if s.logger != nil {
			s.logger.WithField("client", clientKey).WithError(err).Error("rate limiter: failed to increment window")
		}
		// fail open
		return true, s.limit, s.limit, reset, err
	}
	if count > s.limit {
		return false, 0, s.limit, reset, nil
	}
	return true, s.limit - count, s.limit, reset, nil
}

var _ ports.RateLimiterService = (*RateLimiterService)(nil)
