// Package worker runs the polling loop that discovers eligible leads and
// drives them through the scoring pipeline under a concurrency bound.
package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/events"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/domain"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/repository"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/worklog"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/config"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Processor produces a terminal outcome for one lead.
type Processor interface {
	Process(ctx context.Context, lead domain.Lead, pctx domain.PromptContext, apiKey string) domain.Outcome
}

// CredentialSelector picks an API key for one invocation.
type CredentialSelector interface {
	Select(ctx context.Context) (string, error)
}

// Worker owns the poll loop. Eligibility is recomputed from the store every
// cycle; the processed marker is the single source of truth for completed
// work, so the loop itself keeps no per-lead state.
type Worker struct {
	source      repository.EligibilitySource
	credentials CredentialSelector
	processor   Processor
	wlog        *worklog.Log
	bus         events.Bus
	log         *logger.Logger

	interval    time.Duration
	concurrency int
	unitTimeout time.Duration
}

func New(cfg config.WorkerConfig, source repository.EligibilitySource, credentials CredentialSelector, processor Processor, wlog *worklog.Log, bus events.Bus, log *logger.Logger) *Worker {
	interval := cfg.GetPollInterval()
	if interval <= 0 {
		interval = 5 * time.Second
	}
	concurrency := cfg.GetMaxConcurrency()
	if concurrency < 1 {
		concurrency = 3
	}
	unitTimeout := cfg.GetShutdownGrace()
	if unitTimeout <= 0 {
		unitTimeout = 30 * time.Second
	}

	return &Worker{
		source:      source,
		credentials: credentials,
		processor:   processor,
		wlog:        wlog,
		bus:         bus,
		log:         log,
		interval:    interval,
		concurrency: concurrency,
		unitTimeout: unitTimeout,
	}
}

// Run polls until ctx is cancelled. Cancellation stops new cycles; the cycle
// in flight drains before Run returns, with each unit bounded by the
// shutdown grace so no write is abandoned midway.
func (w *Worker) Run(ctx context.Context) {
	w.log.Info("worker started", "poll_interval", w.interval, "max_concurrency", w.concurrency)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker stopped")
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

// RunCycle executes a single fetch-dispatch-summarize cycle. Exposed for
// worker-only binaries and tests.
func (w *Worker) RunCycle(ctx context.Context) worklog.Summary {
	return w.runCycle(ctx)
}

func (w *Worker) runCycle(ctx context.Context) worklog.Summary {
	start := time.Now()

	batch, err := w.source.FetchEligible(ctx)
	if err != nil {
		// Recoverable: skip this cycle, retry at the next interval.
		if errors.Is(err, domain.ErrSourceUnavailable) {
			w.log.Warn("eligibility fetch failed, skipping cycle", "error", err)
		} else {
			w.log.Error("eligibility fetch failed", "error", err)
		}
		return worklog.Summary{Duration: time.Since(start)}
	}

	summary := w.dispatch(ctx, batch)
	summary.Duration = time.Since(start)

	w.wlog.Cycle(summary)
	w.bus.Publish(ctx, events.CycleCompleted{
		BaseEvent: events.NewBaseEvent(),
		CycleID:   uuid.New(),
		Total:     summary.Total,
		Processed: summary.Processed,
		Skipped:   summary.Skipped,
		Errors:    summary.Errors,
		Duration:  summary.Duration,
	})

	return summary
}

// dispatch runs the batch through the pipeline with at most concurrency
// invocations in flight. One lead's failure never aborts its siblings.
func (w *Worker) dispatch(ctx context.Context, batch []repository.EligibleLead) worklog.Summary {
	var processed, skipped, failed atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(w.concurrency)

	for _, item := range batch {
		if !item.Lead.Valid() {
			w.wlog.Skip(item.Lead.LeadID, item.Lead.Name, "invalid_row")
			w.log.Warn("skipping malformed eligible row", "lead_id", item.Lead.LeadID)
			skipped.Add(1)
			continue
		}

		g.Go(func() error {
			// Detached from the loop context so a shutdown signal cannot
			// cancel a unit between its record insert and marker write.
			unitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.unitTimeout)
			defer cancel()

			apiKey, err := w.credentials.Select(unitCtx)
			if err != nil {
				w.wlog.Error(item.Lead.LeadID, item.Lead.Name, "", "credential_selection_failed: "+err.Error())
				failed.Add(1)
				return nil
			}

			outcome := w.processor.Process(unitCtx, item.Lead, item.Context, apiKey)
			switch outcome.Status {
			case domain.OutcomeScored, domain.OutcomeRejected:
				processed.Add(1)
			case domain.OutcomeSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}

	_ = g.Wait()

	return worklog.Summary{
		Total:     len(batch),
		Processed: int(processed.Load()),
		Skipped:   int(skipped.Load()),
		Errors:    int(failed.Load()),
	}
}
