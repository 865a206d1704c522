package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/lightingpro/storefront/internal/application/services"
	"github.com/lightingpro/storefront/internal/core/ports"
	customMiddleware "github.com/lightingpro/storefront/internal/infrastructure/httpserver/middleware"
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
	CatalogService   ports.CatalogService
	AffiliateService ports.AffiliateService
	AnalyticsService *services.AnalyticsService
	LinkValidator    ports.LinkValidator
	HealthCheckers   []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	catalogSvc     ports.CatalogService
	affiliateSvc   ports.AffiliateService
	analyticsSvc   *services.AnalyticsService
	linkValidator  ports.LinkValidator
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		catalogSvc:     deps.CatalogService,
		affiliateSvc:   deps.AffiliateService,
		analyticsSvc:   deps.AnalyticsService,
		linkValidator:  deps.LinkValidator,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}
