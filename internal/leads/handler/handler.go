package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/domain"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/service"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/stats"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/transport"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/httpkit"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for manual lead processing.
type Handler struct {
	svc   *service.Service
	stats *stats.Service
	val   *validator.Validator
}

// New creates a new leads handler.
func New(svc *service.Service, statsSvc *stats.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, stats: statsSvc, val: val}
}

// RegisterRoutes mounts the manual trigger and stats routes.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, triggerLimiter gin.HandlerFunc) {
	group.POST("/process-leads", triggerLimiter, h.ProcessLeads)
	group.POST("/process-lead", triggerLimiter, h.ProcessLead)
	group.GET("/worker/stats", h.WorkerStats)
}

// ProcessLeads processes a batch of explicit leads with an explicit key.
// POST /api/v1/process-leads
func (h *Handler) ProcessLeads(c *gin.Context) {
	var req transport.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	start := time.Now()
	leads := make([]domain.Lead, 0, len(req.Leads))
	for _, in := range req.Leads {
		leads = append(leads, toDomainLead(in))
	}

	results, err := h.svc.ProcessBatch(c.Request.Context(), req.APIKey, promptContext(req.WildnetData, req.ScoringCriteriaAndICP, req.MessagePrompt), leads)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, buildProcessResponse(results, time.Since(start)))
}

// ProcessLead processes a single explicit lead.
// POST /api/v1/process-lead
func (h *Handler) ProcessLead(c *gin.Context) {
	var req transport.ProcessSingleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	start := time.Now()
	results, err := h.svc.ProcessBatch(c.Request.Context(), req.APIKey,
		promptContext(req.WildnetData, req.ScoringCriteriaAndICP, req.MessagePrompt),
		[]domain.Lead{toDomainLead(req.Lead)})
	if httpkit.HandleError(c, err) {
		return
	}

	batch := buildProcessResponse(results, time.Since(start))
	httpkit.OK(c, transport.ProcessSingleResponse{
		Result:      batch.Results[0],
		Errors:      batch.Errors,
		DurationSec: batch.DurationSec,
	})
}

// WorkerStats reports accumulated worker counters.
// GET /api/v1/worker/stats
func (h *Handler) WorkerStats(c *gin.Context) {
	httpkit.OK(c, h.stats.Snapshot())
}

func toDomainLead(in transport.LeadIn) domain.Lead {
	return domain.Lead{
		LeadID:         in.LeadID,
		UserID:         in.UserID,
		Tag:            in.Tag,
		Name:           in.Name,
		Title:          in.Title,
		Location:       in.Location,
		CompanyName:    in.CompanyName,
		Experience:     in.Experience,
		Skills:         in.Skills,
		Bio:            in.Bio,
		ProfileURL:     in.ProfileURL,
		LinkedInURL:    in.LinkedInURL,
		CompanyPageURL: in.CompanyPageURL,
	}
}

func promptContext(wildnet, criteria, message string) domain.PromptContext {
	return domain.PromptContext{
		WildnetData:           wildnet,
		ScoringCriteriaAndICP: criteria,
		MessagePrompt:         message,
	}
}

func buildProcessResponse(results []service.Result, elapsed time.Duration) transport.ProcessResponse {
	out := transport.ProcessResponse{
		Results:     make([]transport.LeadResult, 0, len(results)),
		Errors:      make([]transport.LeadError, 0),
		DurationSec: float64(elapsed.Milliseconds()) / 1000,
	}

	for _, r := range results {
		item := transport.LeadResult{
			LeadID:      r.Lead.LeadID,
			Tag:         r.Lead.Tag,
			Name:        r.Lead.Name,
			LinkedInURL: r.Lead.LinkedInURL,
			Location:    r.Lead.Location,
			Status:      string(r.Outcome.Status),
		}

		switch r.Outcome.Status {
		case domain.OutcomeScored:
			score := r.Outcome.Score
			contact := true
			item.Score = &score
			item.ShouldContact = &contact
			item.Subject = strPtr(r.Outcome.Subject)
			item.Message = strPtr(r.Outcome.Message)
		case domain.OutcomeRejected:
			score := r.Outcome.Score
			contact := false
			item.Score = &score
			item.ShouldContact = &contact
		case domain.OutcomeSkipped:
			item.Reason = strPtr(r.Outcome.Reason)
		case domain.OutcomeFailed:
			item.Reason = strPtr(r.Outcome.Reason)
			out.Errors = append(out.Errors, transport.LeadError{
				LeadID: r.Lead.LeadID,
				Reason: r.Outcome.Reason,
			})
		}

		out.Results = append(out.Results, item)
	}

	return out
}

func strPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
