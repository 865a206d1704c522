package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/lightingpro/storefront/configs"
	"github.com/lightingpro/storefront/internal/application/cache"
	"github.com/lightingpro/storefront/internal/application/services"
	"github.com/lightingpro/storefront/internal/core/domain/affiliate"
	"github.com/lightingpro/storefront/internal/core/ports"
	"github.com/lightingpro/storefront/internal/infrastructure/db"
	"github.com/lightingpro/storefront/internal/infrastructure/health"
	"github.com/lightingpro/storefront/internal/infrastructure/httpserver"
	"github.com/lightingpro/storefront/internal/infrastructure/redis"
	"github.com/lightingpro/storefront/internal/infrastructure/repositories"
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

	logger.Info("Starting LightingPro storefront service...")

	// Initialize database
	database, err := db.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	logger.Info("Connected to database successfully")

	// Initialize Redis client
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	logger.Info("Connected to Redis successfully")

	// Run migrations
	if err := database.Migrate("./migrations"); err != nil {
		logger.Warn("Failed to run migrations:", err)
	}

	// Cache layers
	store := redis.NewStore(redisClient, "storefront")
	cacheMetrics := cache.NewMetrics(store, logger)
	appCache := cache.New(store, cacheMetrics, logger)
	invalidator := cache.NewInvalidator(appCache, logger)

	// Repositories
	productRepo := repositories.NewProductRepository(database, logger)
	questionnaireRepo := repositories.NewQuestionnaireRepository(database, logger)
	linkRepo := repositories.NewLinkRepository(database, logger)
	clickRepo := repositories.NewClickRepository(database, logger)

	// Services
	providers := affiliate.NewCatalog(affiliate.DefaultProviders())
	catalogService := services.NewCatalogService(productRepo, questionnaireRepo, appCache, invalidator, logger)
	affiliateService := services.NewAffiliateService(providers, linkRepo, clickRepo, productRepo, appCache, cfg.Affiliate.AffiliateID, logger)
	analyticsService := services.NewAnalyticsService(appCache, cacheMetrics, invalidator, clickRepo, logger)
	linkValidator := services.NewLinkValidator(appCache, linkRepo, &cfg.Affiliate, logger)

	hcSlice := []ports.HealthChecker{health.NewDBHealthChecker(database), health.NewRedisHealthChecker(redisClient)}

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
		CatalogService:   catalogService,
		AffiliateService: affiliateService,
		AnalyticsService: analyticsService,
		LinkValidator:    linkValidator,
		HealthCheckers:   hcSlice,
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

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
