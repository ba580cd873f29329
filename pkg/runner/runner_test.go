package runner_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/intake/internal/runtime"
	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
	"github.com/aretw0/intake/pkg/runner"
	"github.com/aretw0/intake/pkg/session"
)

func testFlows(t *testing.T) *memory.Loader {
	t.Helper()
	branch := flow.MustNew("branch", "Branch", []domain.Question{
		{Key: "q1", Prompt: "Pick one", Label: "Choice", Kind: domain.KindSingle, Options: []string{"A", "Other"}},
		{Key: "q2", Prompt: "Describe it", Label: "Detail", Kind: domain.KindText, When: domain.Equals("q1", "Other")},
		{Key: "q3", Prompt: "Anything else?", Label: "Notes", Kind: domain.KindText},
	}, flow.WithIntro("Welcome aboard"))
	goals := flow.MustNew("goals", "Goals", []domain.Question{
		{Key: "goals", Prompt: "Your goals?", Label: "Goals", Kind: domain.KindMulti, Options: []string{"X", "Y", "Z"}},
	})
	loader, err := memory.NewLoader(branch, goals)
	require.NoError(t, err)
	return loader
}

func newEngine(t *testing.T, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	return runtime.NewEngine(testFlows(t), opts...)
}

func run(t *testing.T, input string, opts ...runner.Option) (*domain.State, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	opts = append([]runner.Option{runner.WithIO(strings.NewReader(input), out)}, opts...)
	state, err := runner.NewRunner(opts...).Run(context.Background())
	return state, out.String(), err
}

func TestRunner_BranchScenario(t *testing.T) {
	sink := memory.NewSink()
	eng := newEngine(t, runtime.WithSinks(sink))

	state, out, err := run(t, "2\nA cat person\nnothing\nconfirm\n",
		runner.WithEngine(eng), runner.WithFlow("branch"))
	require.NoError(t, err)

	assert.True(t, state.Completed())
	assert.Equal(t, []int{0, 1, 2, 3}, state.Visited)
	assert.Equal(t, "Other", state.Answers.Value("q1"))
	assert.Equal(t, "A cat person", state.Answers.Value("q2"))

	assert.Contains(t, out, "Welcome aboard")
	assert.Contains(t, out, "## Summary")
	assert.Contains(t, out, "All done")

	completion, ok := sink.Last()
	require.True(t, ok)
	assert.Equal(t, "nothing", completion.Answers.Value("q3"))
}

func TestRunner_SkipsHiddenStep(t *testing.T) {
	state, _, err := run(t, "A\nfine\n", runner.WithEngine(newEngine(t)), runner.WithFlow("branch"))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 3}, state.Visited)
	assert.False(t, state.Completed(), "input ended before confirm")
}

func TestRunner_RejectionsKeepLoopAlive(t *testing.T) {
	state, out, err := run(t, "\nconfirm\nmaybe\nA\n",
		runner.WithEngine(newEngine(t)), runner.WithFlow("branch"))
	require.NoError(t, err)

	assert.Contains(t, out, "Please answer this question before continuing.")
	assert.Contains(t, out, "Answer the remaining questions before confirming.")
	assert.Contains(t, out, "That is not a valid answer here")
	assert.Equal(t, 2, state.Current)
}

func TestRunner_MultiSelectToggles(t *testing.T) {
	state, out, err := run(t, "1\n2\n1\nnext\nconfirm\n",
		runner.WithEngine(newEngine(t)), runner.WithFlow("goals"))
	require.NoError(t, err)

	assert.True(t, state.Completed())
	assert.Equal(t, []string{"Y"}, state.Answers.Selected("goals"))
	assert.Contains(t, out, "[x] Y")
}

func TestRunner_BackThenForwardKeepsText(t *testing.T) {
	state, _, err := run(t, "A\n  spaced  words\nback\nback\n\n\nconfirm\n",
		runner.WithEngine(newEngine(t)), runner.WithFlow("branch"))
	require.NoError(t, err)

	assert.True(t, state.Completed())
	assert.Equal(t, "spaced  words", state.Answers.Value("q3"), "surrounding blanks are trimmed by the line reader")
}

func TestRunner_BackAtFirstStep(t *testing.T) {
	state, out, err := run(t, "back\n", runner.WithEngine(newEngine(t)), runner.WithFlow("branch"))
	require.NoError(t, err)
	assert.Contains(t, out, "This is the first question.")
	assert.Equal(t, 0, state.Current)
}

func TestRunner_QuitStops(t *testing.T) {
	state, _, err := run(t, "A\nquit\nnever read\n", runner.WithEngine(newEngine(t)), runner.WithFlow("branch"))
	require.NoError(t, err)
	assert.Equal(t, 2, state.Current)
}

func TestRunner_PersistsAndResumes(t *testing.T) {
	eng := newEngine(t)
	sessions := session.NewManager(memory.NewStore())
	ctx := context.Background()

	_, _, err := run(t, "Other\n", runner.WithEngine(eng), runner.WithFlow("branch"),
		runner.WithSessions(sessions), runner.WithSessionID("resume-me"))
	require.NoError(t, err)

	saved, err := sessions.Load(ctx, "resume-me")
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Current)

	state, out, err := run(t, "details\nnotes\nconfirm\n", runner.WithEngine(eng), runner.WithFlow("branch"),
		runner.WithSessions(sessions), runner.WithSessionID("resume-me"))
	require.NoError(t, err)

	assert.Contains(t, out, "Resuming session resume-me.")
	assert.NotContains(t, out, "Welcome aboard")
	assert.True(t, state.Completed())

	stored, err := sessions.Load(ctx, "resume-me")
	require.NoError(t, err)
	assert.True(t, stored.Completed())
}

func TestRunner_ResumeRejectsOtherFlow(t *testing.T) {
	eng := newEngine(t)
	sessions := session.NewManager(memory.NewStore())
	_, err := sessions.Start(context.Background(), eng, "goals", "s1")
	require.NoError(t, err)

	_, _, err = run(t, "", runner.WithEngine(eng), runner.WithFlow("branch"),
		runner.WithSessions(sessions), runner.WithSessionID("s1"))
	assert.ErrorContains(t, err, "belongs to flow goals")
}

func TestRunner_HeadlessJSON(t *testing.T) {
	state, out, err := run(t, "\"Other\"\n\"why not\"\nlater\n\"confirm\"\n",
		runner.WithEngine(newEngine(t)), runner.WithFlow("branch"), runner.WithHeadless(true))
	require.NoError(t, err)
	assert.True(t, state.Completed())

	var views []runner.Message
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var msg runner.Message
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &msg))
		if msg.Type == "view" {
			views = append(views, msg)
		}
	}
	require.NotEmpty(t, views)
	last := views[len(views)-1].View
	assert.True(t, last.Completed)
	assert.Equal(t, "why not", state.Answers.Value("q2"))
}

func TestRunner_TypingDelayIsCancellable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out := &bytes.Buffer{}
	r := runner.NewRunner(
		runner.WithEngine(newEngine(t)),
		runner.WithFlow("branch"),
		runner.WithIO(strings.NewReader("A\n"), out),
		runner.WithTypingDelay(time.Hour),
	)

	start := time.Now()
	state, err := r.Run(ctx)
	assert.ErrorIs(t, err, runner.ErrInterrupted)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 2, state.Current, "the accepted answer is kept")
	assert.Contains(t, out.String(), "…")
}

func TestRunner_RequiresEngine(t *testing.T) {
	_, err := runner.NewRunner().Run(context.Background())
	assert.ErrorIs(t, err, runner.ErrNoEngine)
}

func TestDescribe(t *testing.T) {
	err := &domain.ValidationError{Op: "advance", Err: domain.ErrAtSummary}
	assert.Contains(t, runner.Describe(err), "confirm")
	assert.Contains(t, runner.Describe(domain.ErrDeliveryFailed), "try again")
}
