package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/faturaflow/faturaflow-api/docs" // Swagger docs
	"github.com/faturaflow/faturaflow-api/internal/config"
	"github.com/faturaflow/faturaflow-api/internal/currency"
	"github.com/faturaflow/faturaflow-api/internal/database"
	"github.com/faturaflow/faturaflow-api/internal/events"
	"github.com/faturaflow/faturaflow-api/internal/handlers"
	"github.com/faturaflow/faturaflow-api/internal/jobs"
	"github.com/faturaflow/faturaflow-api/internal/middleware"
	"github.com/faturaflow/faturaflow-api/internal/repository"
	"github.com/faturaflow/faturaflow-api/internal/services"
	"github.com/faturaflow/faturaflow-api/internal/storage"
	"github.com/faturaflow/faturaflow-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title FaturaFlow API
// @version 1.0
// @description Invoice approval workflow: intake, assignment to projects, processing, returns and archiving, with analytics normalized to USD.

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment, cfg.LogLevel)

	// Initialize Sentry (GlitchTip) when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		if err := database.Seed(context.Background(), db); err != nil {
			logger.Error("Seeding failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Database schema up to date")
	}

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath, cfg.PublicUploadPrefix)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage", "path", store.BasePath())

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Exchange rates, optionally shared across instances through Redis
	rates := setupRates(cfg)

	// Workflow events
	publisher, closePublisher := setupPublisher(cfg)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, rates, publisher, cfg)

	// Schedule recurring jobs
	worker.ScheduleEveryImmediate(cfg.RatesTTL, rates.Refresh)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, store)

	// Setup router
	router := setupRouter(h, svcs, store, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Pending notifications and events drain before the publisher closes
	worker.Shutdown()
	logger.Info("Background worker stopped")
	closePublisher()

	if err := database.Close(db); err != nil {
		logger.Warn("Failed to close database", "error", err)
	}

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRates(cfg *config.Config) *currency.RateCache {
	opts := []currency.Option{currency.WithTTL(cfg.RatesTTL), currency.WithRetryInterval(cfg.RatesRetry)}
	if cfg.RedisAddr != "" {
		client, err := currency.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Warn("Redis unavailable, exchange rates cached in memory only", "addr", cfg.RedisAddr, "error", err)
		} else {
			opts = append(opts, currency.WithStore(currency.NewRedisStore(client)))
			logger.Info("Exchange rates shared through Redis", "addr", cfg.RedisAddr)
		}
	}
	return currency.NewRateCache(currency.NewTCMBFetcher(cfg.RatesURL, cfg.RatesTimeout), opts...)
}

func setupPublisher(cfg *config.Config) (events.Publisher, func()) {
	if cfg.NATSURL == "" {
		return events.NopPublisher{}, func() {}
	}
	conn, err := events.Connect(cfg.NATSURL)
	if err != nil {
		logger.Warn("Workflow events disabled", "error", err)
		return events.NopPublisher{}, func() {}
	}
	logger.Info("Publishing workflow events", "url", cfg.NATSURL)
	publisher := events.NewNATSPublisher(conn)
	return publisher, publisher.Close
}

func setupRouter(h *handlers.Handlers, svcs *services.Services, store *storage.LocalStorage, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Uploaded attachments
	router.Static(cfg.PublicUploadPrefix, store.BasePath())

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	h.Register(router.Group("/api/v1"), middleware.Auth(cfg.JWTSecret, svcs.Auth))

	return router
}
