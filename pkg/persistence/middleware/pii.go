package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

// Mask replaces redacted answer values.
const Mask = "***"

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks answers whose key matches any pattern.
// Masking is one-way: a masked session resumes with the placeholder, so it suits
// audit copies rather than the primary session store.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid PII pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	// The engine may keep using state after Save returns.
	masked := state.Snapshot()
	for key, ans := range masked.Answers {
		if !m.sensitive(key) {
			continue
		}
		if len(ans.Selected) > 0 {
			masked.Answers[key] = domain.Answer{Selected: []string{Mask}}
		} else {
			masked.Answers[key] = domain.Answer{Value: Mask}
		}
	}
	return m.next.Save(ctx, sessionID, masked)
}

func (m *piiMiddleware) sensitive(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
