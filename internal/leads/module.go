// Package leads provides the lead processing bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/events"
	apphttp "github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/http"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/credential"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/handler"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/pipeline"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/repository"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/service"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/stats"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/worklog"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/ai/gemini"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/config"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/logger"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler     *handler.Handler
	repo        *repository.Repository
	pipeline    *pipeline.Pipeline
	credentials *credential.Pool
	stats       *stats.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, cfg *config.Config, wlog *worklog.Log, log *logger.Logger) *Module {
	repo := repository.New(pool)
	scorer := gemini.NewClient(cfg)
	pipe := pipeline.New(scorer, repo, wlog, bus, log)

	statsSvc := stats.New()
	statsSvc.RegisterHandlers(bus)

	svc := service.New(pipe)
	h := handler.New(svc, statsSvc, val)

	return &Module{
		handler:     h,
		repo:        repo,
		pipeline:    pipe,
		credentials: credential.NewPool(repo),
		stats:       statsSvc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Repository returns the shared leads repository for worker wiring.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// Pipeline returns the lead pipeline for worker wiring.
func (m *Module) Pipeline() *pipeline.Pipeline {
	return m.pipeline
}

// Credentials returns the API key pool for worker wiring.
func (m *Module) Credentials() *credential.Pool {
	return m.credentials
}

// Stats returns the accumulated worker counters service.
func (m *Module) Stats() *stats.Service {
	return m.stats
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1, ctx.TriggerRateLimiter.Middleware())
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
