package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/internal/core/ports"
	"github.com/crisisnet/disasterhub/internal/infrastructure/httpserver/helpers"
)

type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiterService
	logger      *logrus.Logger
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiterService, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, logger: logger}
}

func (r *RateLimitMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// No counter store configured, run unlimited.
			if r.rateLimiter == nil {
				return next(c)
			}

			clientKey := helpers.ClientKey(c)
			allowed, remaining, limit, reset, rlErr := r.rateLimiter.Allow(c.Request().Context(), clientKey)

			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			c.Response().Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))

			if rlErr != nil {
				if r.logger != nil {
					r.logger.WithError(rlErr).WithField("client_key", clientKey).Warn("rate limiter error; allowing request (fail-open)")
				}
				return next(c)
			}

			if !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
