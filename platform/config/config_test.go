package config

import (
	"testing"
	"time"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Fatalf("expected default addr :8000, got %s", cfg.HTTPAddr)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("expected default poll interval 5s, got %v", cfg.PollInterval)
	}
	if cfg.MaxConcurrency != 3 {
		t.Fatalf("expected default concurrency 3, got %d", cfg.MaxConcurrency)
	}
	if cfg.ShutdownGrace != 30*time.Second {
		t.Fatalf("expected default shutdown grace 30s, got %v", cfg.ShutdownGrace)
	}
	if !cfg.WorkerEnabled {
		t.Fatal("expected worker enabled by default")
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Fatalf("unexpected default model %s", cfg.GeminiModel)
	}
	if cfg.LogFilePath != "logs/processing.log" {
		t.Fatalf("unexpected default log path %s", cfg.LogFilePath)
	}
}

func TestLoadFallsBackOnInvalidNumbers(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("POLL_INTERVAL_SEC", "not-a-number")
	t.Setenv("MAX_CONCURRENCY", "-2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("expected fallback poll interval, got %v", cfg.PollInterval)
	}
	if cfg.MaxConcurrency != 3 {
		t.Fatalf("expected fallback concurrency, got %d", cfg.MaxConcurrency)
	}
}

func TestLoadRejectsCredentialsWithWildcardOrigin(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("CORS_ALLOW_ALL", "true")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for credentials with wildcard origin")
	}
}

func TestLoadWildcardOriginForcesAllowAll(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("CORS_ORIGINS", "*")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.CORSAllowAll {
		t.Fatal("expected wildcard origin to force allow-all")
	}
}
