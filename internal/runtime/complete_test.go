package runtime_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/internal/runtime"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
	"github.com/aretw0/intake/pkg/ports"
)

func atSummary(t *testing.T, eng *runtime.Engine) *domain.State {
	t.Helper()
	ctx := context.Background()
	state := start(t, eng, "multi")
	state = must(t)(eng.Submit(ctx, state, 0, "Y"))
	return must(t)(eng.Advance(ctx, state))
}

func TestComplete(t *testing.T) {
	sink := memory.NewSink()
	eng := newEngine(t, runtime.WithSinks(sink))
	ctx := context.Background()

	t.Run("Requires Summary Step", func(t *testing.T) {
		state := start(t, eng, "multi")
		next, err := eng.Complete(ctx, state)
		assert.ErrorIs(t, err, domain.ErrNotAtSummary)
		assert.Same(t, state, next)
		assert.Empty(t, sink.Completions())
	})

	t.Run("Seals And Delivers", func(t *testing.T) {
		state := atSummary(t, eng)
		done, err := eng.Complete(ctx, state)
		require.NoError(t, err)
		assert.True(t, done.Completed())
		assert.False(t, state.Completed(), "input state untouched")

		got, ok := sink.Last()
		require.True(t, ok)
		assert.Equal(t, "s1", got.SessionID)
		assert.Equal(t, "multi", got.FlowID)
		assert.Equal(t, []string{"Y"}, got.Answers.Selected("pick"))
		assert.Equal(t, []domain.SummaryEntry{{Key: "pick", Label: "Picked", Value: "Y"}}, got.Summary)

		for name, op := range map[string]func() (*domain.State, error){
			"submit":   func() (*domain.State, error) { return eng.Submit(ctx, done, done.Current, "X") },
			"advance":  func() (*domain.State, error) { return eng.Advance(ctx, done) },
			"back":     func() (*domain.State, error) { return eng.Back(ctx, done) },
			"complete": func() (*domain.State, error) { return eng.Complete(ctx, done) },
		} {
			_, err := op()
			assert.ErrorIs(t, err, domain.ErrCompleted, name)
		}

		view, err := eng.View(ctx, done)
		require.NoError(t, err)
		assert.True(t, view.Completed)
		assert.False(t, view.CanBack)
	})
}

func TestComplete_SinkFailureKeepsSessionOpen(t *testing.T) {
	boom := errors.New("downstream unavailable")
	failing := ports.SinkFunc(func(ctx context.Context, c domain.Completion) error { return boom })
	eng := newEngine(t, runtime.WithSinks(failing))

	state := atSummary(t, eng)
	next, err := eng.Complete(context.Background(), state)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.False(t, domain.IsValidation(err))
	assert.Same(t, state, next)
	assert.False(t, next.Completed())
}

func TestComplete_DropsAnswersOffThePath(t *testing.T) {
	chain := flow.MustNew("chain", "Chain", []domain.Question{
		{Key: "q1", Prompt: "Pick one", Kind: domain.KindSingle, Options: []string{"A", "Other"}},
		{Key: "q2", Prompt: "Which?", Kind: domain.KindSingle, Options: []string{"P", "Q"}, When: domain.Equals("q1", "Other")},
		{Key: "q3", Prompt: "Why P?", Kind: domain.KindText, When: domain.Equals("q2", "P")},
	})
	loader, err := memory.NewLoader(chain)
	require.NoError(t, err)
	sink := memory.NewSink()
	eng := runtime.NewEngine(loader, runtime.WithSinks(sink))
	ctx := context.Background()

	state := start(t, eng, "chain")
	state = must(t)(eng.Submit(ctx, state, 0, "Other"))
	state = must(t)(eng.Advance(ctx, state))
	state = must(t)(eng.Submit(ctx, state, 1, "P"))
	state = must(t)(eng.Advance(ctx, state))
	state = must(t)(eng.Submit(ctx, state, 2, "because"))
	state = must(t)(eng.Back(ctx, state))
	state = must(t)(eng.Back(ctx, state))
	state = must(t)(eng.Submit(ctx, state, 0, "A"))
	state = must(t)(eng.Advance(ctx, state))

	assert.Equal(t, 3, state.Current, "q3 depends on a skipped answer")
	assert.Equal(t, []int{0, 3}, state.Visited)
	assert.Equal(t, "P", state.Answers.Value("q2"), "kept for re-entry")

	done := must(t)(eng.Complete(ctx, state))
	assert.True(t, done.Completed())
	got, ok := sink.Last()
	require.True(t, ok)
	assert.Equal(t, []string{"q1"}, got.Answers.Keys())
	assert.Equal(t, []domain.SummaryEntry{{Key: "q1", Label: "Pick one", Value: "A"}}, got.Summary)
}
