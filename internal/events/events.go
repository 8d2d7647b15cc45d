// Package events provides domain event definitions for decoupled
// communication between the worker, pipeline, and stats modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/events"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *events.InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Lead Processing Events
// =============================================================================

// LeadScored is published when a lead clears the contact threshold and an
// outreach message was generated and recorded.
type LeadScored struct {
	BaseEvent
	LeadID string `json:"leadId"`
	UserID string `json:"userId"`
	Score  int    `json:"score"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }

// LeadRejected is published when a lead scores below the contact threshold.
type LeadRejected struct {
	BaseEvent
	LeadID string `json:"leadId"`
	UserID string `json:"userId"`
	Score  int    `json:"score"`
}

func (e LeadRejected) EventName() string { return "leads.lead.rejected" }

// LeadSkipped is published when a lead turns out to be already recorded.
type LeadSkipped struct {
	BaseEvent
	LeadID string `json:"leadId"`
	UserID string `json:"userId"`
}

func (e LeadSkipped) EventName() string { return "leads.lead.skipped" }

// LeadFailed is published when processing a lead ends in a transient failure.
// The lead stays eligible and is retried on a later cycle.
type LeadFailed struct {
	BaseEvent
	LeadID string `json:"leadId"`
	UserID string `json:"userId"`
	Reason string `json:"reason"`
}

func (e LeadFailed) EventName() string { return "leads.lead.failed" }

// CycleCompleted is published after a polling cycle drains.
type CycleCompleted struct {
	BaseEvent
	CycleID   uuid.UUID     `json:"cycleId"`
	Total     int           `json:"total"`
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Errors    int           `json:"errors"`
	Duration  time.Duration `json:"duration"`
}

func (e CycleCompleted) EventName() string { return "worker.cycle.completed" }
