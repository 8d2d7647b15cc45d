// Package credential selects Gemini API keys from the shared pool.
package credential

import (
	"context"
	"math/rand"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/domain"
	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/repository"
)

// Pool draws keys uniformly at random with replacement. Concurrent selections
// are independent and may return the same key; there is no per-key state.
type Pool struct {
	source repository.KeySource
}

func NewPool(source repository.KeySource) *Pool {
	return &Pool{source: source}
}

// Select returns one usable API key, or domain.ErrEmptyPool when none are
// configured.
func (p *Pool) Select(ctx context.Context) (string, error) {
	keys, err := p.source.ListAPIKeys(ctx)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", domain.ErrEmptyPool
	}
	return keys[rand.Intn(len(keys))], nil
}
