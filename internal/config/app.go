package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the settings of the HTTP service.
// The values are loaded from environment variables.
type AppConfig struct {
	// Core settings
	Port     string
	LogLevel string

	// Monte Carlo limits
	MaxSimulations int
	Workers        int

	// Caching and rate limiting
	CacheTTL       time.Duration
	RateLimitRPS   float64
	RateLimitBurst int

	// Data file paths
	HistoricalDataPath string
}

// LoadAppConfig reads an optional .env file, then environment variables.
// A missing .env file is expected in production and is not an error.
func LoadAppConfig(envFiles ...string) *AppConfig {
	if err := godotenv.Load(envFiles...); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no .env file found, relying on OS environment variables")
		} else {
			slog.Warn("error loading .env file, relying on OS environment variables", "error", err)
		}
	}

	cfg := &AppConfig{
		Port:     getEnv("PORT", "8080"),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "info")),

		MaxSimulations: getEnvAsInt("MC_MAX_SIMULATIONS", 10000),
		Workers:        getEnvAsInt("MC_WORKERS", 0),

		CacheTTL:       getEnvAsDuration("CACHE_TTL", 10*time.Minute),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 4),

		HistoricalDataPath: getEnv("HISTORICAL_DATA_PATH", "testdata/historical_returns.csv"),
	}
	slog.Info("configuration loaded", "port", cfg.Port, "log_level", cfg.LogLevel,
		"mc_max_simulations", cfg.MaxSimulations, "cache_ttl", cfg.CacheTTL.String())
	return cfg
}

// SlogLevel maps the configured log level name to a slog level, defaulting to info
func (c *AppConfig) SlogLevel() slog.Level {
	return ParseLogLevel(c.LogLevel)
}

// ParseLogLevel maps debug, info, warn and error to slog levels
func ParseLogLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer or returns a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	slog.Warn("invalid integer value, using default", "key", key, "value", valueStr, "default", fallback)
	return fallback
}

// getEnvAsFloat retrieves an environment variable as a float or returns a fallback.
func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	slog.Warn("invalid float value, using default", "key", key, "value", valueStr, "default", fallback)
	return fallback
}

// getEnvAsDuration retrieves an environment variable as a time.Duration or returns a fallback.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	slog.Warn("invalid duration value, using default", "key", key, "value", valueStr, "default", fallback.String())
	return fallback
}
