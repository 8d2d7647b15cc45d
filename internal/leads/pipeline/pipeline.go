// Package pipeline drives one lead from scoring through durable completion.
package pipeline

import (
	"context"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/events"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/domain"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/repository"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/worklog"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/ai/gemini"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/logger"
)

const reasonAlreadyProcessed = "already_processed"

// Scorer is the external scoring/generation service.
type Scorer interface {
	ScoreLead(ctx context.Context, apiKey, prompt string) (gemini.ScoreResult, error)
	GenerateMessage(ctx context.Context, apiKey, prompt string) (gemini.MessageResult, error)
}

// Pipeline processes a single lead to a terminal outcome and performs the
// writes that make the outcome durable. All per-lead errors are converted to
// failed outcomes here; they never propagate to the caller.
type Pipeline struct {
	scorer Scorer
	store  repository.ResultStore
	wlog   *worklog.Log
	bus    events.Bus
	log    *logger.Logger
}

func New(scorer Scorer, store repository.ResultStore, wlog *worklog.Log, bus events.Bus, log *logger.Logger) *Pipeline {
	return &Pipeline{
		scorer: scorer,
		store:  store,
		wlog:   wlog,
		bus:    bus,
		log:    log,
	}
}

// Process scores one lead and records the outcome exactly once.
//
// A scoring failure leaves the processed marker unset, so the lead is fetched
// again on a later cycle; that is the retry mechanism. A duplicate record is
// treated as completion by a prior overlapping invocation, not an error.
func (p *Pipeline) Process(ctx context.Context, lead domain.Lead, pctx domain.PromptContext, apiKey string) domain.Outcome {
	p.wlog.Start(lead.LeadID, lead.Name, apiKey)

	scoreResult, err := p.scorer.ScoreLead(ctx, apiKey, buildScoringPrompt(lead, pctx))
	if err != nil {
		return p.fail(ctx, lead, apiKey, "scoring_failed: "+err.Error())
	}

	rec := domain.ProcessingRecord{
		LeadID:      lead.LeadID,
		UserID:      lead.UserID,
		Tag:         lead.Tag,
		Name:        lead.Name,
		LinkedInURL: lead.LinkedInURL,
		Location:    lead.Location,
		Score:       scoreResult.Score,
		RawResponse: scoreResult.Raw,
	}

	if scoreResult.Score >= domain.ContactThreshold {
		msg, err := p.scorer.GenerateMessage(ctx, apiKey, buildMessagePrompt(lead, pctx, scoreResult.Score))
		if err != nil {
			return p.fail(ctx, lead, apiKey, "message_generation_failed: "+err.Error())
		}
		rec.ShouldContact = true
		rec.Subject = msg.Subject
		rec.Message = msg.Message
		rec.RawResponse = msg.Raw
	}

	inserted, err := p.store.InsertResponse(ctx, rec)
	if err != nil {
		return p.fail(ctx, lead, apiKey, "persistence_failed: "+err.Error())
	}

	if err := p.store.MarkProcessed(ctx, lead.LeadID); err != nil {
		// Record exists but marker is unset: the lead will be refetched and
		// resolve as a skip once the marker write succeeds.
		return p.fail(ctx, lead, apiKey, "mark_processed_failed: "+err.Error())
	}

	if !inserted {
		p.wlog.Skip(lead.LeadID, lead.Name, reasonAlreadyProcessed)
		p.bus.Publish(ctx, events.LeadSkipped{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.LeadID,
			UserID:    lead.UserID,
		})
		return domain.Outcome{Status: domain.OutcomeSkipped, Reason: reasonAlreadyProcessed}
	}

	p.wlog.Done(lead.LeadID, lead.Name, apiKey)

	if rec.ShouldContact {
		p.bus.Publish(ctx, events.LeadScored{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.LeadID,
			UserID:    lead.UserID,
			Score:     rec.Score,
		})
		return domain.Outcome{
			Status:        domain.OutcomeScored,
			Score:         rec.Score,
			ShouldContact: true,
			Subject:       rec.Subject,
			Message:       rec.Message,
		}
	}

	p.bus.Publish(ctx, events.LeadRejected{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.LeadID,
		UserID:    lead.UserID,
		Score:     rec.Score,
	})
	return domain.Outcome{Status: domain.OutcomeRejected, Score: rec.Score}
}

func (p *Pipeline) fail(ctx context.Context, lead domain.Lead, apiKey, reason string) domain.Outcome {
	p.wlog.Error(lead.LeadID, lead.Name, apiKey, reason)
	p.log.Error("lead processing failed", "lead_id", lead.LeadID, "reason", reason)
	p.bus.Publish(ctx, events.LeadFailed{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.LeadID,
		UserID:    lead.UserID,
		Reason:    reason,
	})
	return domain.Outcome{Status: domain.OutcomeFailed, Reason: reason}
}
