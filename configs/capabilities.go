package configs

import "strings"

// Capabilities reports, per external dependency, whether real credentials are
// configured. Anything reported false runs in mock mode. Evaluate once at
// startup and inject the result; the check is pure so re-evaluating is cheap,
// but a single snapshot keeps one request internally consistent.
type Capabilities struct {
	// CacheStore gates the cache-through layer: when false the wrapper
	// bypasses the store entirely and calls producers directly.
	CacheStore bool
	Extractor  bool
	Geocoder   bool
	SocialFeed bool
	Scraper    bool
	Verifier   bool
	Alerts     bool
}

// DetectCapabilities derives the capability snapshot from configuration.
func DetectCapabilities(cfg *Config) Capabilities {
	return Capabilities{
		CacheStore: cfg.Cache.Enabled && cacheBackendConfigured(cfg),
		Extractor:  isConfigured(cfg.Upstreams.Extractor.Endpoint) && isConfigured(cfg.Upstreams.Extractor.APIKey),
		Geocoder:   isConfigured(cfg.Upstreams.Geocoder.Endpoint),
		SocialFeed: isConfigured(cfg.Upstreams.SocialFeed.Endpoint) && isConfigured(cfg.Upstreams.SocialFeed.BearerToken),
		Scraper:    isConfigured(cfg.Upstreams.Scraper.DefaultSource),
		Verifier:   isConfigured(cfg.Upstreams.Verifier.Endpoint) && isConfigured(cfg.Upstreams.Verifier.APIKey),
		Alerts:     isConfigured(cfg.Alerts.SendGridAPIKey) && len(cfg.Alerts.Recipients) > 0,
	}
}

func cacheBackendConfigured(cfg *Config) bool {
	switch cfg.Cache.Backend {
	case "postgres":
		return isConfigured(cfg.Database.Host)
	case "redis":
		return isConfigured(cfg.Redis.Host)
	case "memory":
		return true
	default:
		return false
	}
}

// placeholderPrefixes covers values customarily shipped in .env.example files.
var placeholderPrefixes = []string{"your-", "your_", "changeme", "placeholder", "xxx", "<", "todo"}

func isConfigured(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	for _, p := range placeholderPrefixes {
		if strings.HasPrefix(v, p) {
			return false
		}
	}
	return true
}
