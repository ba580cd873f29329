package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/flow"
)

// FlowLoader defines how the engine retrieves flow definitions.
// This allows the definition source (Loam, files, memory) to be decoupled.
type FlowLoader interface {
	// GetFlow returns the validated flow with the given ID.
	// It returns domain.ErrFlowNotFound (possibly wrapped) when the ID is unknown.
	GetFlow(id string) (*flow.Flow, error)

	// ListFlows returns the IDs of all available flows, sorted.
	ListFlows() ([]string, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying definitions change.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan string, error)
}
