package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Upstreams UpstreamsConfig
	Alerts    AlertsConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	DSN      string
	// Connection pool settings
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

// CacheConfig controls the TTL cache store used by the external-integration layer.
type CacheConfig struct {
	Enabled bool
	// Backend selects the store implementation: postgres, redis or memory.
	Backend string
	// TTL applied to every cached producer result.
	TTL time.Duration
	// SweepSchedule is a cron spec for the expired-entry sweep.
	SweepSchedule string
}

// UpstreamsConfig holds credentials and endpoints for every third-party
// capability. Each block independently drives the degraded-mode detection:
// missing or placeholder values put that capability in mock mode.
type UpstreamsConfig struct {
	Extractor  ExtractorConfig
	Geocoder   GeocoderConfig
	SocialFeed SocialFeedConfig
	Scraper    ScraperConfig
	Verifier   VerifierConfig
	Timeout    time.Duration
}

type ExtractorConfig struct {
	Endpoint string
	APIKey   string
	Model    string
}

type GeocoderConfig struct {
	Endpoint string
	APIKey   string
}

type SocialFeedConfig struct {
	Endpoint    string
	BearerToken string
}

type ScraperConfig struct {
	// DefaultSource is the page scraped when a request names no source.
	DefaultSource string
}

type VerifierConfig struct {
	Endpoint string
	APIKey   string
}

type AlertsConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	Recipients     []string
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Window            time.Duration
	KeyPrefix         string
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			TLSCertFile:  getEnv("TLS_CERT_FILE", ""),
			TLSKeyFile:   getEnv("TLS_KEY_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "disasterhub"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationEnv("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Cache: CacheConfig{
			Enabled:       getBoolEnv("CACHE_ENABLED", true),
			Backend:       getEnv("CACHE_BACKEND", "postgres"),
			TTL:           getDurationEnv("CACHE_TTL", time.Hour),
			SweepSchedule: getEnv("CACHE_SWEEP_SCHEDULE", "@hourly"),
		},
		Upstreams: UpstreamsConfig{
			Extractor: ExtractorConfig{
				Endpoint: getEnv("EXTRACTOR_API_URL", "https://api.openai.com/v1/chat/completions"),
				APIKey:   getEnv("EXTRACTOR_API_KEY", ""),
				Model:    getEnv("EXTRACTOR_MODEL", "gpt-4o-mini"),
			},
			Geocoder: GeocoderConfig{
				Endpoint: getEnv("GEOCODER_API_URL", ""),
				APIKey:   getEnv("GEOCODER_API_KEY", ""),
			},
			SocialFeed: SocialFeedConfig{
				Endpoint:    getEnv("SOCIAL_FEED_API_URL", ""),
				BearerToken: getEnv("SOCIAL_FEED_BEARER_TOKEN", ""),
			},
			Scraper: ScraperConfig{
				DefaultSource: getEnv("SCRAPER_DEFAULT_SOURCE", ""),
			},
			Verifier: VerifierConfig{
				Endpoint: getEnv("VERIFIER_API_URL", ""),
				APIKey:   getEnv("VERIFIER_API_KEY", ""),
			},
			Timeout: getDurationEnv("UPSTREAM_TIMEOUT", 10*time.Second),
		},
		Alerts: AlertsConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:      getEnv("ALERT_FROM_EMAIL", "alerts@disasterhub.local"),
			FromName:       getEnv("ALERT_FROM_NAME", "DisasterHub Alerts"),
			Recipients:     getListEnv("ALERT_RECIPIENTS"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getIntEnv("RATE_LIMIT_RPM", 120),
			Window:            getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			KeyPrefix:         getEnv("RATE_LIMIT_KEY_PREFIX", "ratelimit:client"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Build database DSN
	cfg.Database.DSN = fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.DBName,
		cfg.Database.SSLMode,
	)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
