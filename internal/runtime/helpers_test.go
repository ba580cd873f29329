package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/internal/runtime"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
)

// branchFlow is the canonical three-question branch:
// Q1 single-select, Q2 only when Q1 is "Other", Q3 required free text.
func branchFlow() *flow.Flow {
	return flow.MustNew("branch", "Branch", []domain.Question{
		{Key: "q1", Prompt: "Pick one", Kind: domain.KindSingle, Options: []string{"A", "B", "Other"}},
		{Key: "q2", Prompt: "Which other?", Kind: domain.KindText, When: domain.Equals("q1", "Other")},
		{Key: "q3", Prompt: "Thanks {{ .q1 }}! Your name?", Kind: domain.KindText},
	})
}

func multiFlow() *flow.Flow {
	return flow.MustNew("multi", "Multi", []domain.Question{
		{Key: "pick", Prompt: "Pick any", Label: "Picked", Kind: domain.KindMulti, Options: []string{"X", "Y", "Z"}},
	})
}

func mixedFlow() *flow.Flow {
	return flow.MustNew("mixed", "Mixed", []domain.Question{
		{Key: "name", Prompt: "Name?", Kind: domain.KindText},
		{Key: "age", Prompt: "Age?", Kind: domain.KindNumber, Optional: true},
		{Key: "goals", Prompt: "Goals?", Kind: domain.KindMulti, Options: []string{"Sleep", "Focus", "Calm"}},
		{Key: "extra", Prompt: "Anything else?", Kind: domain.KindText, Optional: true},
	})
}

func newEngine(t *testing.T, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	loader, err := memory.NewLoader(branchFlow(), multiFlow(), mixedFlow())
	require.NoError(t, err)

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	base := []runtime.EngineOption{
		runtime.WithClock(func() time.Time { return fixed }),
		runtime.WithIDGenerator(func() string { return "generated" }),
	}
	return runtime.NewEngine(loader, append(base, opts...)...)
}

// must fails the test on error and returns the next state:
//
//	state = must(t)(eng.Advance(ctx, state))
func must(t *testing.T) func(*domain.State, error) *domain.State {
	t.Helper()
	return func(state *domain.State, err error) *domain.State {
		t.Helper()
		require.NoError(t, err)
		return state
	}
}

func start(t *testing.T, eng *runtime.Engine, flowID string) *domain.State {
	t.Helper()
	state, err := eng.Start(context.Background(), flowID, "s1")
	require.NoError(t, err)
	return state
}
