package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/intake/pkg/domain"
)

// Complete seals a session that sits on the summary step and hands the
// answers of the visited path to every configured sink. If a sink fails the state is returned
// unsealed so the caller can retry.
func (e *Engine) Complete(ctx context.Context, state *domain.State) (*domain.State, error) {
	f, err := e.load(state)
	if err != nil {
		return nil, err
	}

	if state.Completed() {
		return e.reject(ctx, state, OpComplete, "", domain.ErrCompleted, "")
	}
	if !f.IsTerminal(state.Current) {
		return e.reject(ctx, state, OpComplete, "", domain.ErrNotAtSummary, "")
	}

	next := e.cloneState(state)
	next.Status = domain.StatusCompleted

	completion := domain.Completion{
		SessionID:   next.SessionID,
		FlowID:      next.FlowID,
		Answers:     PathAnswers(f, next),
		Summary:     Project(f, next, e.delimiter),
		CompletedAt: next.UpdatedAt,
	}

	var errs []error
	for i, sink := range e.sinks {
		if err := sink.Deliver(ctx, completion); err != nil {
			e.logger.Error("completion sink failed", "session_id", state.SessionID, "sink", i, "err", err)
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	if len(errs) > 0 {
		return state, fmt.Errorf("%w: %w", domain.ErrDeliveryFailed, errors.Join(errs...))
	}

	e.logger.Info("session completed", "session_id", state.SessionID, "flow_id", state.FlowID, "answered", len(completion.Answers))
	if e.hooks.OnComplete != nil {
		e.hooks.OnComplete(ctx, &domain.CompletionEvent{
			EventBase: e.base(domain.EventComplete, next),
			Answered:  len(completion.Answers),
			Duration:  next.UpdatedAt.Sub(next.CreatedAt),
		})
	}
	return next, nil
}
