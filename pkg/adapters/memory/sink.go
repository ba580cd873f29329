package memory

import (
	"context"
	"sync"

	"github.com/aretw0/intake/pkg/domain"
)

// Sink records completions in memory. It is the default hand-off target in
// tests and demos.
type Sink struct {
	mu          sync.Mutex
	completions []domain.Completion
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Deliver implements ports.CompletionSink.
func (s *Sink) Deliver(ctx context.Context, c domain.Completion) error {
	c.Answers = c.Answers.Clone()
	c.Summary = append([]domain.SummaryEntry(nil), c.Summary...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.completions = append(s.completions, c)
	return nil
}

// Completions returns a copy of everything delivered so far.
func (s *Sink) Completions() []domain.Completion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Completion(nil), s.completions...)
}

// Last returns the most recent completion.
func (s *Sink) Last() (domain.Completion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.completions) == 0 {
		return domain.Completion{}, false
	}
	return s.completions[len(s.completions)-1], true
}
