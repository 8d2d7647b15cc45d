// Package domain holds the core types of the lead processing bounded context.
package domain

import "errors"

// ContactThreshold is the minimum score for which an outreach message is
// generated. Leads below it are recorded as rejected without spending a
// generation call.
const ContactThreshold = 50

// Sentinel errors for the processing taxonomy. The pipeline and worker map
// these onto per-unit outcomes; they never abort a batch.
var (
	ErrSourceUnavailable   = errors.New("eligibility source unavailable")
	ErrEmptyPool           = errors.New("no api keys configured")
	ErrScoringFailed       = errors.New("scoring call failed")
	ErrPersistenceConflict = errors.New("response already recorded")
	ErrPersistenceFailed   = errors.New("response write failed")
)

// Lead is one unit of work: the data needed to request scoring.
// It is immutable once fetched.
type Lead struct {
	LeadID         string
	UserID         string
	Tag            string
	Name           string
	Title          string
	Location       string
	CompanyName    string
	Experience     string
	Skills         string
	Bio            string
	ProfileURL     string
	LinkedInURL    string
	CompanyPageURL string
}

// Valid reports whether the identity fields required downstream are present.
// Rows failing this are rejected at the fetch boundary.
func (l Lead) Valid() bool {
	return l.LeadID != "" && l.UserID != "" && l.Tag != ""
}

// PromptContext carries the tenant- and tag-scoped instructions guiding the
// scoring and message-generation calls. The worker treats it as opaque.
type PromptContext struct {
	WildnetData           string
	ScoringCriteriaAndICP string
	MessagePrompt         string
}

// OutcomeStatus classifies the terminal result of one pipeline invocation.
type OutcomeStatus string

const (
	OutcomeScored   OutcomeStatus = "scored"
	OutcomeRejected OutcomeStatus = "rejected"
	OutcomeSkipped  OutcomeStatus = "skipped"
	OutcomeFailed   OutcomeStatus = "failed"
)

// Outcome is the terminal result of processing one lead. It is produced once
// per invocation and never revised.
type Outcome struct {
	Status        OutcomeStatus
	Score         int
	ShouldContact bool
	Subject       string
	Message       string
	Reason        string
}

// ProcessingRecord is the durable write for a scored or rejected lead.
// Keyed by LeadID; duplicate inserts are benign idempotency collisions.
type ProcessingRecord struct {
	LeadID        string
	UserID        string
	Tag           string
	Name          string
	LinkedInURL   string
	Location      string
	Score         int
	ShouldContact bool
	Subject       string
	Message       string
	RawResponse   string
}
