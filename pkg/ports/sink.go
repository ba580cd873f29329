package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// CompletionSink receives the finished Answer Store when a user confirms the summary.
// The engine defines no storage format; sinks decide what to do with the hand-off.
type CompletionSink interface {
	Deliver(ctx context.Context, c domain.Completion) error
}

// SinkFunc adapts a function to CompletionSink.
type SinkFunc func(ctx context.Context, c domain.Completion) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, c domain.Completion) error {
	return f(ctx, c)
}
