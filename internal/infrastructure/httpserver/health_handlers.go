package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health check handler. Besides dependency probes it reports which upstream
// capabilities run live; mock-mode capabilities are expected, not unhealthy.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string)
	overall := "healthy"
	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		if err := hc.Check(ctx); err != nil {
			deps[hc.Name()] = "unhealthy"
			if overall == "healthy" {
				overall = "degraded"
			}
		} else {
			deps[hc.Name()] = "healthy"
		}
	}

	capabilities := map[string]string{
		"cache_store": enabledOrDisabled(s.capabilities.CacheStore),
		"extractor":   liveOrMock(s.capabilities.Extractor),
		"geocoder":    liveOrMock(s.capabilities.Geocoder),
		"social_feed": liveOrMock(s.capabilities.SocialFeed),
		"scraper":     liveOrMock(s.capabilities.Scraper),
		"verifier":    liveOrMock(s.capabilities.Verifier),
		"alerts":      enabledOrDisabled(s.capabilities.Alerts),
	}

	health := map[string]interface{}{
		"status":       overall,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"version":      "1.0.0",
		"service":      "disasterhub",
		"dependencies": deps,
		"capabilities": capabilities,
	}
	if s.hub != nil {
		health["ws_subscribers"] = s.hub.Subscribers()
	}
	code := http.StatusOK
	if overall != "healthy" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, health)
}

func liveOrMock(live bool) string {
	if live {
		return "live"
	}
	return "mock"
}

func enabledOrDisabled(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
