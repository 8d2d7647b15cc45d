package service

import (
	"context"
	"testing"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/domain"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/apperr"
)

type processorFunc func(ctx context.Context, lead domain.Lead, pctx domain.PromptContext, apiKey string) domain.Outcome

func (f processorFunc) Process(ctx context.Context, lead domain.Lead, pctx domain.PromptContext, apiKey string) domain.Outcome {
	return f(ctx, lead, pctx, apiKey)
}

func TestProcessBatchRejectsEmptyBatch(t *testing.T) {
	svc := New(processorFunc(func(_ context.Context, _ domain.Lead, _ domain.PromptContext, _ string) domain.Outcome {
		return domain.Outcome{}
	}))

	_, err := svc.ProcessBatch(context.Background(), "key", domain.PromptContext{}, nil)
	if err == nil {
		t.Fatal("expected error for empty batch")
	}
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProcessBatchRejectsLeadWithoutID(t *testing.T) {
	svc := New(processorFunc(func(_ context.Context, _ domain.Lead, _ domain.PromptContext, _ string) domain.Outcome {
		return domain.Outcome{}
	}))

	_, err := svc.ProcessBatch(context.Background(), "key", domain.PromptContext{}, []domain.Lead{{Name: "no id"}})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProcessBatchRunsEveryLeadAndKeepsOrder(t *testing.T) {
	var seen []string
	svc := New(processorFunc(func(_ context.Context, lead domain.Lead, _ domain.PromptContext, apiKey string) domain.Outcome {
		if apiKey != "key-1234" {
			t.Fatalf("unexpected api key %q", apiKey)
		}
		seen = append(seen, lead.LeadID)
		if lead.LeadID == "b" {
			return domain.Outcome{Status: domain.OutcomeFailed, Reason: "boom"}
		}
		return domain.Outcome{Status: domain.OutcomeRejected, Score: 10}
	}))

	leads := []domain.Lead{{LeadID: "a"}, {LeadID: "b"}, {LeadID: "c"}}
	results, err := svc.ProcessBatch(context.Background(), "key-1234", domain.PromptContext{}, leads)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, id := range []string{"a", "b", "c"} {
		if results[i].Lead.LeadID != id {
			t.Fatalf("result order broken at %d: %s", i, results[i].Lead.LeadID)
		}
	}
	if results[1].Outcome.Status != domain.OutcomeFailed {
		t.Fatal("expected per-lead failure preserved in results")
	}
}
