// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// WorkerConfig provides settings for the background polling worker.
type WorkerConfig interface {
	GetPollInterval() time.Duration
	GetMaxConcurrency() int
	GetShutdownGrace() time.Duration
	IsWorkerEnabled() bool
}

// AIConfig provides settings for the Gemini scoring client.
type AIConfig interface {
	GetGeminiModel() string
}

// WorklogConfig provides settings for the append-only processing log.
type WorklogConfig interface {
	GetLogFilePath() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env            string
	HTTPAddr       string
	DatabaseURL    string
	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool
	PollInterval   time.Duration
	MaxConcurrency int
	ShutdownGrace  time.Duration
	WorkerEnabled  bool
	GeminiModel    string
	LogFilePath    string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// WorkerConfig implementation
func (c *Config) GetPollInterval() time.Duration  { return c.PollInterval }
func (c *Config) GetMaxConcurrency() int          { return c.MaxConcurrency }
func (c *Config) GetShutdownGrace() time.Duration { return c.ShutdownGrace }
func (c *Config) IsWorkerEnabled() bool           { return c.WorkerEnabled }

// AIConfig implementation
func (c *Config) GetGeminiModel() string { return c.GeminiModel }

// WorklogConfig implementation
func (c *Config) GetLogFilePath() string { return c.LogFilePath }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "*"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "true"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8000"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		CORSAllowAll:   corsAllowAll,
		CORSOrigins:    corsOrigins,
		CORSAllowCreds: strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		PollInterval:   time.Duration(mustPositiveInt(getEnv("POLL_INTERVAL_SEC", "5"), 5)) * time.Second,
		MaxConcurrency: mustPositiveInt(getEnv("MAX_CONCURRENCY", "3"), 3),
		ShutdownGrace:  mustDuration(getEnv("SHUTDOWN_GRACE", "30s"), 30*time.Second),
		WorkerEnabled:  strings.EqualFold(getEnv("WORKER_ENABLED", "true"), "true"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		LogFilePath:    getEnv("LOG_FILE", "logs/processing.log"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func mustPositiveInt(value string, fallback int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
