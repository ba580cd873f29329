package runtime

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

// Operation names carried by ValidationError.Op.
const (
	OpSubmit   = "submit"
	OpAdvance  = "advance"
	OpBack     = "back"
	OpComplete = "complete"
)

// Submit applies value to step, which must be the current one.
// Multi-select questions toggle value in or out of the selected set;
// scalar questions replace the stored value, and an empty value clears it.
func (e *Engine) Submit(ctx context.Context, state *domain.State, step int, value string) (*domain.State, error) {
	f, err := e.load(state)
	if err != nil {
		return nil, err
	}

	if state.Completed() {
		return e.reject(ctx, state, OpSubmit, "", domain.ErrCompleted, "")
	}
	if step != state.Current {
		return e.reject(ctx, state, OpSubmit, "", domain.ErrWrongStep, fmt.Sprintf("got step %d", step))
	}
	q, ok := f.Question(step)
	if !ok {
		return e.reject(ctx, state, OpSubmit, "", domain.ErrAtSummary, "")
	}

	next := e.cloneState(state)
	switch q.Kind {
	case domain.KindMulti:
		if !q.HasOption(value) {
			return e.reject(ctx, state, OpSubmit, q.Key, domain.ErrInvalidValue, fmt.Sprintf("%q is not an option", value))
		}
		next.Answers.Toggle(q.Key, value)

	case domain.KindSingle:
		if value != "" && !q.HasOption(value) {
			return e.reject(ctx, state, OpSubmit, q.Key, domain.ErrInvalidValue, fmt.Sprintf("%q is not an option", value))
		}
		next.Answers.Set(q.Key, value)

	case domain.KindNumber:
		normalized, err := parseNumber(value)
		if err != nil {
			return e.reject(ctx, state, OpSubmit, q.Key, domain.ErrInvalidValue, err.Error())
		}
		next.Answers.Set(q.Key, normalized)

	default:
		// Free text is stored verbatim.
		next.Answers.Set(q.Key, value)
	}

	e.logger.Debug("answer applied", "session_id", state.SessionID, "step", step, "key", q.Key)
	if e.hooks.OnAnswer != nil {
		e.hooks.OnAnswer(ctx, &domain.AnswerEvent{
			EventBase: e.base(domain.EventAnswer, next),
			Op:        OpSubmit,
			Step:      step,
			Key:       q.Key,
			Value:     value,
		})
	}
	return next, nil
}

// Advance moves to the next visible step, or to the summary when none remains.
// Visibility is evaluated against the answers on the visited path as they are
// now; steps already on the path are never re-evaluated.
func (e *Engine) Advance(ctx context.Context, state *domain.State) (*domain.State, error) {
	f, err := e.load(state)
	if err != nil {
		return nil, err
	}

	if state.Completed() {
		return e.reject(ctx, state, OpAdvance, "", domain.ErrCompleted, "")
	}
	q, ok := f.Question(state.Current)
	if !ok {
		return e.reject(ctx, state, OpAdvance, "", domain.ErrAtSummary, "")
	}
	if !Satisfied(q, state.Answers) {
		return e.reject(ctx, state, OpAdvance, q.Key, domain.ErrStepIncomplete, "")
	}

	e.emitStepLeave(ctx, f, state)

	next := e.cloneState(state)
	next.Current = f.NextVisible(state.Current, PathAnswers(f, state))
	next.Visited = append(next.Visited, next.Current)

	e.logger.Debug("advanced", "session_id", state.SessionID, "from", state.Current, "to", next.Current)
	e.emitStepEnter(ctx, f, next)
	return next, nil
}

// Back returns to the previous entry of the visited path.
// Answers given for later steps are kept, so re-entering a step restores its value.
func (e *Engine) Back(ctx context.Context, state *domain.State) (*domain.State, error) {
	f, err := e.load(state)
	if err != nil {
		return nil, err
	}

	if state.Completed() {
		return e.reject(ctx, state, OpBack, "", domain.ErrCompleted, "")
	}
	if len(state.Visited) < 2 {
		return e.reject(ctx, state, OpBack, "", domain.ErrAtFirstStep, "")
	}

	e.emitStepLeave(ctx, f, state)

	next := e.cloneState(state)
	next.Visited = next.Visited[:len(next.Visited)-1]
	next.Current = next.Visited[len(next.Visited)-1]

	e.logger.Debug("went back", "session_id", state.SessionID, "from", state.Current, "to", next.Current)
	e.emitStepEnter(ctx, f, next)
	return next, nil
}

// Satisfied reports whether the stored answer lets the user continue past q.
// Optional questions are always satisfied.
func Satisfied(q domain.Question, answers domain.Answers) bool {
	if !q.Required() {
		return true
	}
	ans, ok := answers.Get(q.Key)
	if !ok {
		return false
	}
	if q.Kind == domain.KindMulti {
		return len(ans.Selected) > 0
	}
	return strings.TrimSpace(ans.Value) != ""
}

// parseNumber accepts finite decimal numbers. Surrounding spaces are dropped.
func parseNumber(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return "", fmt.Errorf("%q is not a number", value)
	}
	return trimmed, nil
}
