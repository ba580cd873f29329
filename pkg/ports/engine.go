package ports

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
)

// WizardEngine defines the operations adapters (HTTP, MCP, terminal runner) drive.
// Implementations never mutate the state they receive; on rejection they return
// it unchanged together with a *domain.ValidationError.
type WizardEngine interface {
	// Start creates the initial state of a session on the given flow.
	Start(ctx context.Context, flowID, sessionID string) (*domain.State, error)

	// Submit applies a value to the current step.
	Submit(ctx context.Context, state *domain.State, step int, value string) (*domain.State, error)

	// Advance moves to the next visible step.
	Advance(ctx context.Context, state *domain.State) (*domain.State, error)

	// Back returns to the previously visited step.
	Back(ctx context.Context, state *domain.State) (*domain.State, error)

	// Complete seals a session sitting on the summary step.
	Complete(ctx context.Context, state *domain.State) (*domain.State, error)

	// View projects the state for rendering.
	View(ctx context.Context, state *domain.State) (domain.View, error)

	// Summary projects the visited answers as labelled lines.
	Summary(ctx context.Context, state *domain.State) ([]domain.SummaryEntry, error)

	// Flow resolves a flow definition.
	Flow(id string) (*flow.Flow, error)

	// Flows lists available flow IDs.
	Flows() ([]string, error)
}
