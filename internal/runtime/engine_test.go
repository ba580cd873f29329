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
)

func TestStart(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	state, err := eng.Start(ctx, "branch", "")
	require.NoError(t, err)
	assert.Equal(t, "generated", state.SessionID)
	assert.Equal(t, "branch", state.FlowID)
	assert.Equal(t, 0, state.Current)
	assert.Equal(t, []int{0}, state.Visited)
	assert.Empty(t, state.Answers)
	assert.Equal(t, domain.StatusActive, state.Status)

	_, err = eng.Start(ctx, "missing", "s1")
	assert.ErrorIs(t, err, domain.ErrFlowNotFound)
}

func TestStart_SkipsHiddenLeadingSteps(t *testing.T) {
	f := flow.MustNew("hidden", "Hidden", []domain.Question{
		{Key: "a", Prompt: "A", Kind: domain.KindText, VisibleWhen: func(domain.Answers) bool { return false }},
	})
	loader, err := memory.NewLoader(f)
	require.NoError(t, err)

	state, err := runtime.NewEngine(loader).Start(context.Background(), "hidden", "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, state.Current, "no visible question lands on the summary")
	assert.Equal(t, []int{1}, state.Visited)
}

func TestScenario_BranchSkipsHiddenStep(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	t.Run("A skips to Q3", func(t *testing.T) {
		state := start(t, eng, "branch")
		state = must(t)(eng.Submit(ctx, state, 0, "A"))
		state = must(t)(eng.Advance(ctx, state))

		assert.Equal(t, 2, state.Current)
		assert.Equal(t, []int{0, 2}, state.Visited)
	})

	t.Run("Other lands on Q2", func(t *testing.T) {
		state := start(t, eng, "branch")
		state = must(t)(eng.Submit(ctx, state, 0, "Other"))
		state = must(t)(eng.Advance(ctx, state))

		assert.Equal(t, 1, state.Current)
		assert.Equal(t, []int{0, 1}, state.Visited)
	})
}

func TestScenario_MultiSelectRequired(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	state := start(t, eng, "multi")

	_, err := eng.Advance(ctx, state)
	assert.ErrorIs(t, err, domain.ErrStepIncomplete)

	state = must(t)(eng.Submit(ctx, state, 0, "X"))
	state = must(t)(eng.Advance(ctx, state))
	assert.Equal(t, 1, state.Current)

	summary, err := eng.Summary(ctx, state)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, domain.SummaryEntry{Key: "pick", Label: "Picked", Value: "X"}, summary[0])
}

func TestScenario_BackThenForwardPreservesText(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	text := "  Ada  Lovelace\n"

	state := start(t, eng, "branch")
	state = must(t)(eng.Submit(ctx, state, 0, "A"))
	state = must(t)(eng.Advance(ctx, state))
	state = must(t)(eng.Submit(ctx, state, 2, text))

	state = must(t)(eng.Back(ctx, state))
	assert.Equal(t, 0, state.Current)
	state = must(t)(eng.Advance(ctx, state))
	assert.Equal(t, 2, state.Current)

	view, err := eng.View(ctx, state)
	require.NoError(t, err)
	current := view.Steps[len(view.Steps)-1]
	assert.Equal(t, text, current.Answer.Value, "free text is restored verbatim")
}

func TestBack_AtFirstStepIsNoop(t *testing.T) {
	eng := newEngine(t)
	state := start(t, eng, "branch")
	before := state.Snapshot()

	next, err := eng.Back(context.Background(), state)
	assert.ErrorIs(t, err, domain.ErrAtFirstStep)
	assert.True(t, domain.IsValidation(err))
	assert.Same(t, state, next)
	assert.Equal(t, before, next)
}

func TestSubmit_Rejections(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	atMixed := start(t, eng, "mixed")
	atMixed = must(t)(eng.Submit(ctx, atMixed, 0, "Ada"))
	atMixed = must(t)(eng.Advance(ctx, atMixed)) // on "age"

	atSummary := start(t, eng, "multi")
	atSummary = must(t)(eng.Submit(ctx, atSummary, 0, "Y"))
	atSummary = must(t)(eng.Advance(ctx, atSummary))

	tests := []struct {
		name  string
		state *domain.State
		step  int
		value string
		want  error
	}{
		{"Earlier Step", atMixed, 0, "Grace", domain.ErrWrongStep},
		{"Step Not Yet Reached", atMixed, 2, "Sleep", domain.ErrWrongStep},
		{"Out Of Range", atMixed, 99, "x", domain.ErrWrongStep},
		{"Summary Step", atSummary, 1, "x", domain.ErrAtSummary},
		{"Not A Number", atMixed, 1, "forty", domain.ErrInvalidValue},
		{"Not Finite", atMixed, 1, "NaN", domain.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.state.Snapshot()
			next, err := eng.Submit(ctx, tt.state, tt.step, tt.value)

			assert.ErrorIs(t, err, tt.want)
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, runtime.OpSubmit, verr.Op)
			assert.Equal(t, before, next, "state must be unchanged on rejection")
		})
	}
}

func TestSubmit_UnknownOption(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	for _, flowID := range []string{"branch", "multi"} {
		state := start(t, eng, flowID)
		_, err := eng.Submit(ctx, state, 0, "nope")
		assert.ErrorIs(t, err, domain.ErrInvalidValue, flowID)
	}
}

func TestSubmit_DoesNotMutateInput(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	state := start(t, eng, "branch")

	next := must(t)(eng.Submit(ctx, state, 0, "A"))
	assert.Empty(t, state.Answers)
	assert.Equal(t, "A", next.Answers.Value("q1"))

	advanced := must(t)(eng.Advance(ctx, next))
	assert.Equal(t, []int{0}, next.Visited)
	assert.Equal(t, []int{0, 2}, advanced.Visited)
}

func TestSubmit_ScalarSemantics(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	state := start(t, eng, "branch")

	state = must(t)(eng.Submit(ctx, state, 0, "A"))
	state = must(t)(eng.Submit(ctx, state, 0, "B"))
	assert.Equal(t, "B", state.Answers.Value("q1"), "single-select replaces")

	state = must(t)(eng.Submit(ctx, state, 0, ""))
	_, ok := state.Answers.Get("q1")
	assert.False(t, ok, "empty value clears")

	_, err := eng.Advance(ctx, state)
	assert.ErrorIs(t, err, domain.ErrStepIncomplete)
}

func TestSubmit_NumberIsNormalized(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	state := start(t, eng, "mixed")
	state = must(t)(eng.Submit(ctx, state, 0, "Ada"))
	state = must(t)(eng.Advance(ctx, state))

	state = must(t)(eng.Submit(ctx, state, 1, " 42.5 "))
	assert.Equal(t, "42.5", state.Answers.Value("age"))
}

func TestMultiToggleTwiceRestores(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	state := start(t, eng, "multi")
	state = must(t)(eng.Submit(ctx, state, 0, "Y"))
	before := state.Answers.Clone()

	state = must(t)(eng.Submit(ctx, state, 0, "Z"))
	assert.ElementsMatch(t, []string{"Y", "Z"}, state.Answers.Selected("pick"))
	state = must(t)(eng.Submit(ctx, state, 0, "Z"))

	assert.Equal(t, before, state.Answers)
}

func TestAdvance_Gate(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()
	state := start(t, eng, "mixed")

	t.Run("Whitespace Is Not An Answer", func(t *testing.T) {
		blank := must(t)(eng.Submit(ctx, state, 0, "   "))
		next, err := eng.Advance(ctx, blank)
		assert.ErrorIs(t, err, domain.ErrStepIncomplete)
		assert.Equal(t, 0, next.Current)
	})

	t.Run("Optional Step Passes Unanswered", func(t *testing.T) {
		s := must(t)(eng.Submit(ctx, state, 0, "Ada"))
		s = must(t)(eng.Advance(ctx, s))
		s = must(t)(eng.Advance(ctx, s))
		assert.Equal(t, 2, s.Current)
	})

	t.Run("Summary Step", func(t *testing.T) {
		s := start(t, eng, "multi")
		s = must(t)(eng.Submit(ctx, s, 0, "X"))
		s = must(t)(eng.Advance(ctx, s))
		_, err := eng.Advance(ctx, s)
		assert.ErrorIs(t, err, domain.ErrAtSummary)
	})
}

func TestVisibility_FrozenOncePassed(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	state := start(t, eng, "branch")
	state = must(t)(eng.Submit(ctx, state, 0, "Other"))
	state = must(t)(eng.Advance(ctx, state))
	state = must(t)(eng.Submit(ctx, state, 1, "Something else"))
	state = must(t)(eng.Advance(ctx, state))
	assert.Equal(t, []int{0, 1, 2}, state.Visited)

	// Re-answering Q1 is only possible after walking back to it, which drops Q2 from the path.
	state = must(t)(eng.Back(ctx, state))
	state = must(t)(eng.Back(ctx, state))
	state = must(t)(eng.Submit(ctx, state, 0, "A"))
	state = must(t)(eng.Advance(ctx, state))
	assert.Equal(t, []int{0, 2}, state.Visited)

	assert.Equal(t, "Something else", state.Answers.Value("q2"), "answers ahead are kept")

	summary, err := eng.Summary(ctx, state)
	require.NoError(t, err)
	keys := make([]string, len(summary))
	for i, e := range summary {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"q1", "q3"}, keys, "the skipped step never reaches the summary")
}

func TestLoad_RejectsCorruptState(t *testing.T) {
	eng := newEngine(t)
	ctx := context.Background()

	bad := start(t, eng, "branch")
	bad.Current = 7
	_, err := eng.Advance(ctx, bad)
	assert.Error(t, err)
	assert.False(t, domain.IsValidation(err))

	broken := start(t, eng, "branch")
	broken.Visited = nil
	_, err = eng.View(ctx, broken)
	assert.Error(t, err)
}
