package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/crisisnet/disasterhub/configs"
	"github.com/crisisnet/disasterhub/internal/app/maintenance"
	"github.com/crisisnet/disasterhub/internal/application/services"
	"github.com/crisisnet/disasterhub/internal/core/ports"
	"github.com/crisisnet/disasterhub/internal/infrastructure/cache"
	"github.com/crisisnet/disasterhub/internal/infrastructure/db"
	"github.com/crisisnet/disasterhub/internal/infrastructure/email"
	"github.com/crisisnet/disasterhub/internal/infrastructure/external"
	"github.com/crisisnet/disasterhub/internal/infrastructure/health"
	"github.com/crisisnet/disasterhub/internal/infrastructure/httpserver"
	"github.com/crisisnet/disasterhub/internal/infrastructure/realtime"
	infraRedis "github.com/crisisnet/disasterhub/internal/infrastructure/redis"
	"github.com/crisisnet/disasterhub/internal/infrastructure/repositories"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Setup logger
	logger := logrus.New()
	if cfg.Log.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(level)
	}

	logger.Info("Starting disaster information hub...")

	// Capabilities are fixed at startup: each upstream block either carries
	// real credentials (live) or runs against the built-in mocks.
	capabilities := config.DetectCapabilities(cfg)
	logger.WithFields(logrus.Fields{
		"cache_store": capabilities.CacheStore,
		"extractor":   capabilities.Extractor,
		"geocoder":    capabilities.Geocoder,
		"social_feed": capabilities.SocialFeed,
		"scraper":     capabilities.Scraper,
		"verifier":    capabilities.Verifier,
		"alerts":      capabilities.Alerts,
	}).Info("Detected upstream capabilities")

	// Initialize database (apply pool settings from config). The primary
	// datastore is required; there is no degraded mode for CRUD.
	database, err := db.NewDatabaseWithConfig(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Redis backs the optional redis cache store and the rate limiter. A
	// missing Redis only degrades those concerns, never the API itself.
	redisClient, err := infraRedis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.WithError(err).Warn("Redis unavailable; rate limiting disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
		logger.Info("Connected to Redis successfully")
	}

	// Select the cache store backend.
	var cacheStore ports.CacheStore
	if capabilities.CacheStore {
		switch cfg.Cache.Backend {
		case "postgres":
			cacheStore = repositories.NewCacheRepository(database, logger)
		case "redis":
			if redisClient != nil {
				cacheStore = infraRedis.NewCacheStore(redisClient, "cache")
			} else {
				logger.Warn("Redis cache backend configured but Redis is down; cache disabled")
			}
		case "memory":
			cacheStore = cache.NewMemoryStore()
		}
	}
	cacheService := services.NewTTLCacheService(cacheStore, cacheStore != nil, logger)

	// Upstream adapters, live or mock per detected capability.
	extractor := external.NewExtractor(cfg.Upstreams, capabilities.Extractor, logger)
	geocoder := external.NewGeocoder(cfg.Upstreams, capabilities.Geocoder, logger)
	socialFeed := external.NewSocialFeedClient(cfg.Upstreams, capabilities.SocialFeed, logger)
	scraper := external.NewScraper(cfg.Upstreams, capabilities.Scraper, logger)
	verifier := external.NewVerifierClient(cfg.Upstreams, capabilities.Verifier, logger)

	var alertService ports.AlertService
	if capabilities.Alerts {
		alertService, err = email.NewAlertEmailService(cfg.Alerts, logger)
		if err != nil {
			logger.Fatal("Failed to initialize alert service:", err)
		}
	}

	hub := realtime.NewHub(logger)

	// Wire all services with their dependencies.
	disasterRepo := repositories.NewDisasterRepository(database, logger)
	resourceRepo := repositories.NewResourceRepository(database, logger)
	reportRepo := repositories.NewReportRepository(database, logger)

	feedService := services.NewFeedService(cacheService, socialFeed, scraper,
		cfg.Cache.TTL, cfg.Upstreams.Scraper.DefaultSource, logger)
	geoService := services.NewGeoService(cacheService, extractor, geocoder, cfg.Cache.TTL, logger)
	disasterService := services.NewDisasterService(disasterRepo, feedService, hub, alertService, logger)
	resourceService := services.NewResourceService(resourceRepo, hub, logger)
	reportService := services.NewReportService(reportRepo, verifier, cacheService, cfg.Cache.TTL, hub, logger)

	var rateLimiterService ports.RateLimiterService
	if redisClient != nil {
		rateLimiterService = services.NewRateLimiterService(
			repositories.NewRateLimitRedisRepository(redisClient),
			&services.RateLimiterConfig{
				RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
				Window:            cfg.RateLimit.Window,
				KeyPrefix:         cfg.RateLimit.KeyPrefix,
			},
			logger)
	}

	healthCheckers := []ports.HealthChecker{health.NewDBHealthChecker(database)}
	if redisClient != nil {
		healthCheckers = append(healthCheckers, health.NewRedisHealthChecker(redisClient))
	}
	if cacheStore != nil {
		healthCheckers = append(healthCheckers, health.NewCacheStoreHealthChecker(cacheStore))
	}

	// Hourly sweep of expired cache entries. A nil store disables it.
	sweeper := maintenance.NewSweeper(cacheStore, logger,
		maintenance.WithSchedule(cfg.Cache.SweepSchedule))
	if err := sweeper.Start(); err != nil {
		logger.Fatal("Failed to start cache sweeper:", err)
	}

	// Create server configuration
	serverConfig := &httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	deps := httpserver.ServerDeps{
		DisasterService:    disasterService,
		ResourceService:    resourceService,
		ReportService:      reportService,
		FeedService:        feedService,
		GeoService:         geoService,
		RateLimiterService: rateLimiterService,
		HealthCheckers:     healthCheckers,
		Hub:                hub,
		Capabilities:       capabilities,
	}

	server := httpserver.NewServer(serverConfig, logger, deps)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	logger.Infof("Server started on %s:%s", cfg.Server.Host, cfg.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	<-sweeper.Stop().Done()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
