package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/events"
	apphttp "github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/http"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/http/router"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/worker"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/worklog"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/migrations"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/config"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/db"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/logger"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// Append-only processing log, mirrored to stdout
	wlog, err := worklog.Open(cfg.GetLogFilePath(), os.Stdout)
	if err != nil {
		log.Error("failed to open processing log", "error", err, "path", cfg.GetLogFilePath())
		panic("failed to open processing log: " + err.Error())
	}
	defer wlog.Close()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	leadsModule := leads.NewModule(pool, eventBus, val, cfg, wlog, log)

	// ========================================================================
	// Background Worker
	// ========================================================================

	workerDone := make(chan struct{})
	if cfg.IsWorkerEnabled() {
		w := worker.New(cfg, leadsModule.Repository(), leadsModule.Credentials(), leadsModule.Pipeline(), wlog, eventBus, log)
		go func() {
			defer close(workerDone)
			w.Run(ctx)
		}()
		log.Info("background worker started", "poll_interval", cfg.GetPollInterval(), "max_concurrency", cfg.GetMaxConcurrency())
	} else {
		close(workerDone)
		log.Warn("background worker disabled")
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownGrace())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}
		// Wait for the in-flight worker cycle to drain before closing the pool.
		select {
		case <-workerDone:
		case <-shutdownCtx.Done():
			log.Warn("worker did not drain before shutdown deadline")
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
