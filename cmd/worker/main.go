package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/events"
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

// Standalone worker binary. Runs the polling loop without the HTTP surface,
// for deployments that split the API from the background processing.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

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

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	wlog, err := worklog.Open(cfg.GetLogFilePath(), os.Stdout)
	if err != nil {
		log.Error("failed to open processing log", "error", err, "path", cfg.GetLogFilePath())
		panic("failed to open processing log: " + err.Error())
	}
	defer wlog.Close()

	leadsModule := leads.NewModule(pool, eventBus, val, cfg, wlog, log)

	w := worker.New(cfg, leadsModule.Repository(), leadsModule.Credentials(), leadsModule.Pipeline(), wlog, eventBus, log)
	log.Info("worker running", "poll_interval", cfg.GetPollInterval(), "max_concurrency", cfg.GetMaxConcurrency())
	w.Run(ctx)

	log.Info("worker stopped")
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
