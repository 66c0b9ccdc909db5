package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Database
	DatabaseURL string
	AutoMigrate bool

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// Storage
	StoragePath        string
	PublicUploadPrefix string

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Sentry
	SentryDSN string

	// Exchange rates
	RatesURL     string
	RatesTTL     time.Duration
	RatesTimeout time.Duration
	RatesRetry   time.Duration

	// Redis (optional shared rate cache)
	RedisAddr string
	RedisDB   int

	// NATS (optional workflow event stream)
	NATSURL string

	// Notifications
	NotificationPageSize int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		AutoMigrate:          getEnvAsBool("AUTO_MIGRATE", true),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTExpirationHours:   getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		StoragePath:          getEnv("STORAGE_PATH", "./storage"),
		PublicUploadPrefix:   getEnv("PUBLIC_UPLOAD_PREFIX", "/uploads"),
		WorkerCount:          getEnvAsInt("WORKER_COUNT", 5),
		AllowedOrigins:       getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		SentryDSN:            getEnv("SENTRY_DSN", ""),
		RatesURL:             getEnv("RATES_URL", "https://www.tcmb.gov.tr/kurlar/today.xml"),
		RatesTTL:             getEnvAsDuration("RATES_TTL", time.Hour),
		RatesTimeout:         getEnvAsDuration("RATES_TIMEOUT", 10*time.Second),
		RatesRetry:           getEnvAsDuration("RATES_RETRY_INTERVAL", time.Minute),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		NATSURL:              getEnv("NATS_URL", ""),
		NotificationPageSize: getEnvAsInt("NOTIFICATION_PAGE_SIZE", 20),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	if cfg.NotificationPageSize <= 0 {
		cfg.NotificationPageSize = 20
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool reads an environment variable as boolean
func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration reads an environment variable as a Go duration ("90s", "1h")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
