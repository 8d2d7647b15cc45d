package credential

import (
	"context"
	"errors"
	"testing"

	"github.com/ashishsingh-beep/dreamforce-bot-llm-backend/internal/leads/domain"
)

type stubKeySource struct {
	keys []string
	err  error
}

func (s *stubKeySource) ListAPIKeys(_ context.Context) ([]string, error) {
	return s.keys, s.err
}

func TestSelectReturnsEmptyPoolErrorWhenNoKeysConfigured(t *testing.T) {
	p := NewPool(&stubKeySource{})

	_, err := p.Select(context.Background())
	if !errors.Is(err, domain.ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
}

func TestSelectPropagatesSourceError(t *testing.T) {
	srcErr := errors.New("connection reset")
	p := NewPool(&stubKeySource{err: srcErr})

	_, err := p.Select(context.Background())
	if !errors.Is(err, srcErr) {
		t.Fatalf("expected source error, got %v", err)
	}
}

func TestSelectReturnsOneOfTheConfiguredKeys(t *testing.T) {
	keys := []string{"key-a", "key-b", "key-c"}
	p := NewPool(&stubKeySource{keys: keys})

	for i := 0; i < 50; i++ {
		key, err := p.Select(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		found := false
		for _, k := range keys {
			if k == key {
				found = true
			}
		}
		if !found {
			t.Fatalf("selected key %q not in pool", key)
		}
	}
}

func TestSelectRefreshesPoolEachCall(t *testing.T) {
	src := &stubKeySource{keys: []string{"old-key"}}
	p := NewPool(src)

	key, err := p.Select(context.Background())
	if err != nil || key != "old-key" {
		t.Fatalf("expected old-key, got %q (%v)", key, err)
	}

	src.keys = []string{"new-key"}
	key, err = p.Select(context.Background())
	if err != nil || key != "new-key" {
		t.Fatalf("expected new-key after rotation, got %q (%v)", key, err)
	}
}
