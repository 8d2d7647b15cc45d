// Package stats accumulates process-lifetime worker counters from domain
// events. It exists as an explicit object so tests can run independent
// instances instead of sharing ambient state.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/events"
)

// CycleSnapshot mirrors the most recent cycle summary.
type CycleSnapshot struct {
	Total       int           `json:"total"`
	Processed   int           `json:"processed"`
	Skipped     int           `json:"skipped"`
	Errors      int           `json:"errors"`
	Duration    time.Duration `json:"-"`
	DurationSec float64       `json:"duration_sec"`
	At          time.Time     `json:"at"`
}

// Snapshot is a point-in-time view of the accumulated counters.
type Snapshot struct {
	StartedAt     time.Time      `json:"started_at"`
	Cycles        uint64         `json:"cycles"`
	LeadsScored   uint64         `json:"leads_scored"`
	LeadsRejected uint64         `json:"leads_rejected"`
	LeadsSkipped  uint64         `json:"leads_skipped"`
	LeadsFailed   uint64         `json:"leads_failed"`
	LastCycle     *CycleSnapshot `json:"last_cycle,omitempty"`
}

// Service subscribes to lead and cycle events and keeps running totals.
type Service struct {
	mu        sync.RWMutex
	startedAt time.Time
	snapshot  Snapshot
}

func New() *Service {
	now := time.Now()
	return &Service{
		startedAt: now,
		snapshot:  Snapshot{StartedAt: now},
	}
}

// RegisterHandlers subscribes the service to the event bus.
func (s *Service) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadScored{}.EventName(), events.HandlerFunc(func(_ context.Context, _ events.Event) error {
		s.mu.Lock()
		s.snapshot.LeadsScored++
		s.mu.Unlock()
		return nil
	}))
	bus.Subscribe(events.LeadRejected{}.EventName(), events.HandlerFunc(func(_ context.Context, _ events.Event) error {
		s.mu.Lock()
		s.snapshot.LeadsRejected++
		s.mu.Unlock()
		return nil
	}))
	bus.Subscribe(events.LeadSkipped{}.EventName(), events.HandlerFunc(func(_ context.Context, _ events.Event) error {
		s.mu.Lock()
		s.snapshot.LeadsSkipped++
		s.mu.Unlock()
		return nil
	}))
	bus.Subscribe(events.LeadFailed{}.EventName(), events.HandlerFunc(func(_ context.Context, _ events.Event) error {
		s.mu.Lock()
		s.snapshot.LeadsFailed++
		s.mu.Unlock()
		return nil
	}))
	bus.Subscribe(events.CycleCompleted{}.EventName(), events.HandlerFunc(func(_ context.Context, event events.Event) error {
		cycle, ok := event.(events.CycleCompleted)
		if !ok {
			return nil
		}
		s.mu.Lock()
		s.snapshot.Cycles++
		s.snapshot.LastCycle = &CycleSnapshot{
			Total:       cycle.Total,
			Processed:   cycle.Processed,
			Skipped:     cycle.Skipped,
			Errors:      cycle.Errors,
			Duration:    cycle.Duration,
			DurationSec: cycle.Duration.Seconds(),
			At:          cycle.OccurredAt(),
		}
		s.mu.Unlock()
		return nil
	}))
}

// Snapshot returns a copy of the current counters.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastCycle != nil {
		last := *s.snapshot.LastCycle
		snap.LastCycle = &last
	}
	return snap
}
