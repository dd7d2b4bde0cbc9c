package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cartfox/backend/internal/application/basket"
	"github.com/cartfox/backend/internal/infrastructure/cache"
	"github.com/cartfox/backend/internal/infrastructure/config"
	"github.com/cartfox/backend/internal/infrastructure/logger"
	"github.com/cartfox/backend/internal/infrastructure/scraper"
	"github.com/cartfox/backend/internal/infrastructure/telemetry"
	"github.com/cartfox/backend/internal/interfaces/http/handler"
	"github.com/cartfox/backend/internal/interfaces/http/middleware"
	"github.com/cartfox/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CartFox Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	// Initialize telemetry
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	// Build platform connectors with their per-platform caches
	cacheCfg := cache.Config{
		Backend:    cache.Backend(cfg.Cache.Backend),
		DefaultTTL: cfg.Scraper.CacheTTL,
		Redis: cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		AllowMemoryFallback: true,
	}
	connectors, err := scraper.New(cfg.Scraper, cacheCfg, log)
	if err != nil {
		log.Fatal("Failed to build platform connectors", zap.Error(err))
	}
	log.Info("Platform connectors ready", zap.Int("count", len(connectors)))

	// Build application services
	mappingService, err := basket.NewMappingService(cfg.Scraper.MappingsPath, log)
	if err != nil {
		log.Fatal("Failed to load product mappings", zap.Error(err))
	}
	fetchService := basket.NewFetchService(connectors, cfg.Scraper.MaxConcurrent, log)
	basketService := basket.NewService(
		mappingService,
		fetchService,
		basket.NewOptimizerService(log),
		log,
	)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	})...)
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	platforms := make([]string, 0, len(connectors))
	for name := range connectors {
		platforms = append(platforms, name)
	}
	sort.Strings(platforms)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, platforms)

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// API routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewBasketHandler(basketService)).
		Register(systemHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := basketService.Close(); err != nil {
		log.Warn("Error closing connectors", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Warn("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
