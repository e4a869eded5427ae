package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/crisisnet/disasterhub/configs"
	"github.com/crisisnet/disasterhub/internal/core/ports"
	"github.com/crisisnet/disasterhub/internal/infrastructure/realtime"
	customMiddleware "github.com/crisisnet/disasterhub/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
}

type ServerDeps struct {
	DisasterService    ports.DisasterService
	ResourceService    ports.ResourceService
	ReportService      ports.ReportService
	FeedService        ports.FeedService
	GeoService         ports.GeoService
	RateLimiterService ports.RateLimiterService
	HealthCheckers     []ports.HealthChecker
	Hub                *realtime.Hub
	Capabilities       configs.Capabilities
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	disasterSvc    ports.DisasterService
	resourceSvc    ports.ResourceService
	reportSvc      ports.ReportService
	feedSvc        ports.FeedService
	geoSvc         ports.GeoService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
	hub            *realtime.Hub
	capabilities   configs.Capabilities
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.Validator = newRequestValidator()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		disasterSvc:    deps.DisasterService,
		resourceSvc:    deps.ResourceService,
		reportSvc:      deps.ReportService,
		feedSvc:        deps.FeedService,
		geoSvc:         deps.GeoService,
		healthCheckers: deps.HealthCheckers,
		hub:            deps.Hub,
		capabilities:   deps.Capabilities,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.RateLimiterService,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
