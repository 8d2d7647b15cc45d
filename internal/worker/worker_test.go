package worker

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/events"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/domain"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/repository"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/worklog"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/logger"
)

type testConfig struct {
	interval    time.Duration
	concurrency int
	grace       time.Duration
}

func (c testConfig) GetPollInterval() time.Duration  { return c.interval }
func (c testConfig) GetMaxConcurrency() int          { return c.concurrency }
func (c testConfig) GetShutdownGrace() time.Duration { return c.grace }
func (c testConfig) IsWorkerEnabled() bool           { return true }

type stubSource struct {
	mu      sync.Mutex
	batches [][]repository.EligibleLead
	err     error
}

func (s *stubSource) FetchEligible(_ context.Context) ([]repository.EligibleLead, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.batches) == 0 {
		return nil, nil
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

type stubCredentials struct {
	key string
	err error
}

func (s *stubCredentials) Select(_ context.Context) (string, error) {
	return s.key, s.err
}

// processorFunc adapts a function to the Processor interface.
type processorFunc func(ctx context.Context, lead domain.Lead, pctx domain.PromptContext, apiKey string) domain.Outcome

func (f processorFunc) Process(ctx context.Context, lead domain.Lead, pctx domain.PromptContext, apiKey string) domain.Outcome {
	return f(ctx, lead, pctx, apiKey)
}

func eligible(id string) repository.EligibleLead {
	return repository.EligibleLead{
		Lead:    domain.Lead{LeadID: id, UserID: "u1", Tag: "t1", Name: "Lead " + id},
		Context: domain.PromptContext{WildnetData: "w", ScoringCriteriaAndICP: "c", MessagePrompt: "m"},
	}
}

func newTestWorker(source *stubSource, creds *stubCredentials, proc Processor, concurrency int) (*Worker, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logger.New("test")
	cfg := testConfig{interval: time.Hour, concurrency: concurrency, grace: 5 * time.Second}
	return New(cfg, source, creds, proc, worklog.New(&buf), events.NewInMemoryBus(log), log), &buf
}

func TestRunCycleNeverExceedsConcurrencyBound(t *testing.T) {
	const total = 20
	const bound = 3

	batch := make([]repository.EligibleLead, 0, total)
	for i := 0; i < total; i++ {
		batch = append(batch, eligible(fmt.Sprintf("lead-%d", i)))
	}

	var inFlight, peak atomic.Int64
	proc := processorFunc(func(_ context.Context, _ domain.Lead, _ domain.PromptContext, _ string) domain.Outcome {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return domain.Outcome{Status: domain.OutcomeRejected, Score: 10}
	})

	w, _ := newTestWorker(&stubSource{batches: [][]repository.EligibleLead{batch}}, &stubCredentials{key: "key-1234"}, proc, bound)
	summary := w.RunCycle(context.Background())

	if got := peak.Load(); got > bound {
		t.Fatalf("concurrency bound violated: saw %d in flight, bound is %d", got, bound)
	}
	if summary.Total != total || summary.Processed != total {
		t.Fatalf("expected all %d leads processed, got %+v", total, summary)
	}
}

func TestRunCycleCountsOutcomesIntoSummary(t *testing.T) {
	batch := []repository.EligibleLead{eligible("a"), eligible("b"), eligible("c")}

	proc := processorFunc(func(_ context.Context, lead domain.Lead, _ domain.PromptContext, _ string) domain.Outcome {
		switch lead.LeadID {
		case "a":
			return domain.Outcome{Status: domain.OutcomeScored, Score: 72, ShouldContact: true}
		case "b":
			return domain.Outcome{Status: domain.OutcomeRejected, Score: 30}
		default:
			return domain.Outcome{Status: domain.OutcomeFailed, Reason: "scoring_failed: boom"}
		}
	})

	w, buf := newTestWorker(&stubSource{batches: [][]repository.EligibleLead{batch}}, &stubCredentials{key: "key-1234"}, proc, 3)
	summary := w.RunCycle(context.Background())

	if summary.Total != 3 || summary.Processed != 2 || summary.Skipped != 0 || summary.Errors != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !strings.Contains(buf.String(), "total=3, processed=2, skipped=0, errors=1") {
		t.Fatalf("expected cycle line in log, got %q", buf.String())
	}
}

func TestRunCycleOneFailureDoesNotAbortSiblings(t *testing.T) {
	batch := []repository.EligibleLead{eligible("a"), eligible("b"), eligible("c"), eligible("d")}

	var processed atomic.Int64
	proc := processorFunc(func(_ context.Context, lead domain.Lead, _ domain.PromptContext, _ string) domain.Outcome {
		processed.Add(1)
		if lead.LeadID == "b" {
			return domain.Outcome{Status: domain.OutcomeFailed, Reason: "scoring_failed: provider down"}
		}
		return domain.Outcome{Status: domain.OutcomeScored, Score: 60, ShouldContact: true}
	})

	w, _ := newTestWorker(&stubSource{batches: [][]repository.EligibleLead{batch}}, &stubCredentials{key: "key-1234"}, proc, 2)
	summary := w.RunCycle(context.Background())

	if got := processed.Load(); got != 4 {
		t.Fatalf("expected all 4 leads attempted, got %d", got)
	}
	if summary.Processed != 3 || summary.Errors != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestRunCycleSkipsMalformedRows(t *testing.T) {
	batch := []repository.EligibleLead{
		eligible("a"),
		{Lead: domain.Lead{LeadID: "b"}}, // missing user_id and tag
	}

	proc := processorFunc(func(_ context.Context, _ domain.Lead, _ domain.PromptContext, _ string) domain.Outcome {
		return domain.Outcome{Status: domain.OutcomeRejected, Score: 5}
	})

	w, buf := newTestWorker(&stubSource{batches: [][]repository.EligibleLead{batch}}, &stubCredentials{key: "key-1234"}, proc, 2)
	summary := w.RunCycle(context.Background())

	if summary.Total != 2 || summary.Processed != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if !strings.Contains(buf.String(), "invalid_row") {
		t.Fatalf("expected invalid_row skip in log, got %q", buf.String())
	}
}

func TestRunCycleSourceUnavailableSkipsCycleWithoutSummaryLine(t *testing.T) {
	source := &stubSource{err: fmt.Errorf("%w: connection refused", domain.ErrSourceUnavailable)}
	proc := processorFunc(func(_ context.Context, _ domain.Lead, _ domain.PromptContext, _ string) domain.Outcome {
		t.Fatal("processor must not run when the fetch fails")
		return domain.Outcome{}
	})

	w, buf := newTestWorker(source, &stubCredentials{key: "key-1234"}, proc, 2)
	summary := w.RunCycle(context.Background())

	if summary.Total != 0 || summary.Processed != 0 || summary.Errors != 0 {
		t.Fatalf("expected empty summary on source failure, got %+v", summary)
	}
	if strings.Contains(buf.String(), "CYCLE") {
		t.Fatalf("expected no cycle line for a skipped cycle, got %q", buf.String())
	}
}

func TestRunCycleCredentialFailureCountsAsError(t *testing.T) {
	batch := []repository.EligibleLead{eligible("a")}
	creds := &stubCredentials{err: domain.ErrEmptyPool}

	proc := processorFunc(func(_ context.Context, _ domain.Lead, _ domain.PromptContext, _ string) domain.Outcome {
		t.Fatal("processor must not run without a credential")
		return domain.Outcome{}
	})

	w, buf := newTestWorker(&stubSource{batches: [][]repository.EligibleLead{batch}}, creds, proc, 2)
	summary := w.RunCycle(context.Background())

	if summary.Errors != 1 {
		t.Fatalf("expected credential failure counted as error, got %+v", summary)
	}
	if !strings.Contains(buf.String(), "credential_selection_failed") {
		t.Fatalf("expected credential failure reason in log, got %q", buf.String())
	}
}

func TestRunStopsOnContextCancelAfterDrainingCycle(t *testing.T) {
	source := &stubSource{batches: [][]repository.EligibleLead{{eligible("a")}}}
	var done atomic.Bool
	proc := processorFunc(func(_ context.Context, _ domain.Lead, _ domain.PromptContext, _ string) domain.Outcome {
		time.Sleep(10 * time.Millisecond)
		done.Store(true)
		return domain.Outcome{Status: domain.OutcomeRejected, Score: 1}
	})

	w, _ := newTestWorker(source, &stubCredentials{key: "key-1234"}, proc, 1)

	ctx, cancel := context.WithCancel(context.Background())
	go cancel()

	finished := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
	if !done.Load() {
		t.Fatal("in-flight unit was abandoned instead of drained")
	}
}

func TestRunCycleReappearingLeadResolvesAsSkip(t *testing.T) {
	// Simulates a record insert that succeeded on a prior cycle whose marker
	// write failed: the lead is fetched again and must settle as a skip.
	batch := []repository.EligibleLead{eligible("a")}
	source := &stubSource{batches: [][]repository.EligibleLead{batch, batch}}

	calls := 0
	proc := processorFunc(func(_ context.Context, _ domain.Lead, _ domain.PromptContext, _ string) domain.Outcome {
		calls++
		if calls == 1 {
			return domain.Outcome{Status: domain.OutcomeFailed, Reason: "mark_processed_failed: timeout"}
		}
		return domain.Outcome{Status: domain.OutcomeSkipped, Reason: "already_processed"}
	})

	w, _ := newTestWorker(source, &stubCredentials{key: "key-1234"}, proc, 1)

	first := w.RunCycle(context.Background())
	if first.Errors != 1 {
		t.Fatalf("expected first cycle to record the failure, got %+v", first)
	}

	second := w.RunCycle(context.Background())
	if second.Skipped != 1 || second.Errors != 0 {
		t.Fatalf("expected reappearing lead to resolve as skip, got %+v", second)
	}
}

func TestNewAppliesDefaultsForInvalidConfig(t *testing.T) {
	log := logger.New("test")
	var buf bytes.Buffer
	w := New(testConfig{}, &stubSource{}, &stubCredentials{key: "k"}, processorFunc(func(_ context.Context, _ domain.Lead, _ domain.PromptContext, _ string) domain.Outcome {
		return domain.Outcome{}
	}), worklog.New(&buf), events.NewInMemoryBus(log), log)

	if w.interval != 5*time.Second {
		t.Fatalf("expected default interval 5s, got %v", w.interval)
	}
	if w.concurrency != 3 {
		t.Fatalf("expected default concurrency 3, got %d", w.concurrency)
	}
	if w.unitTimeout != 30*time.Second {
		t.Fatalf("expected default unit timeout 30s, got %v", w.unitTimeout)
	}
}
