// Package service exposes manual lead processing on top of the pipeline.
package service

import (
	"context"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/domain"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/apperr"
)

// Processor produces a terminal outcome for one lead.
type Processor interface {
	Process(ctx context.Context, lead domain.Lead, pctx domain.PromptContext, apiKey string) domain.Outcome
}

// Result pairs a lead with its outcome for response building.
type Result struct {
	Lead    domain.Lead
	Outcome domain.Outcome
}

// Service is the thin manual-trigger adapter: it constructs the same work
// units the worker constructs and calls the same pipeline.
type Service struct {
	processor Processor
}

func New(processor Processor) *Service {
	return &Service{processor: processor}
}

// ProcessBatch runs each lead through the pipeline sequentially with the
// supplied credential and context. Per-lead failures are carried in the
// outcomes; they do not abort the batch.
func (s *Service) ProcessBatch(ctx context.Context, apiKey string, pctx domain.PromptContext, leads []domain.Lead) ([]Result, error) {
	if len(leads) == 0 {
		return nil, apperr.Validation("no leads provided")
	}

	results := make([]Result, 0, len(leads))
	for _, lead := range leads {
		if lead.LeadID == "" {
			return nil, apperr.Validation("lead_id is required for every lead")
		}
		outcome := s.processor.Process(ctx, lead, pctx, apiKey)
		results = append(results, Result{Lead: lead, Outcome: outcome})
	}

	return results, nil
}
