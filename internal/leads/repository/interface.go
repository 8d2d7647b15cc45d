package repository

import (
	"context"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/domain"
)

// EligibleLead pairs a lead with the prompt context resolved for its
// (user_id, tag) at fetch time.
type EligibleLead struct {
	Lead    domain.Lead
	Context domain.PromptContext
}

// EligibilitySource fetches the current batch of unprocessed leads.
type EligibilitySource interface {
	FetchEligible(ctx context.Context) ([]EligibleLead, error)
}

// KeySource lists the usable Gemini API keys.
type KeySource interface {
	ListAPIKeys(ctx context.Context) ([]string, error)
}

// ResultStore persists outcomes and the processed marker.
type ResultStore interface {
	// InsertResponse writes the processing record. It returns false without
	// error when a record for the lead already exists.
	InsertResponse(ctx context.Context, rec domain.ProcessingRecord) (bool, error)
	// MarkProcessed sets the sent_to_llm marker. Setting it twice is a no-op.
	MarkProcessed(ctx context.Context, leadID string) error
}
