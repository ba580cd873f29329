package observability

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/intake/pkg/domain"
)

// LogHooks returns lifecycle hooks that write each event to logger.
// Navigation is logged at debug level, rejections at info, completions at info.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_enter",
				"session_id", e.SessionID,
				"flow_id", e.FlowID,
				"step", e.Step,
				"key", e.Key,
				"terminal", e.Terminal,
			)
		},
		OnStepLeave: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "step_leave",
				"session_id", e.SessionID,
				"step", e.Step,
				"key", e.Key,
			)
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			// Values are deliberately left out: answers may be health data.
			logger.DebugContext(ctx, "answer",
				"session_id", e.SessionID,
				"step", e.Step,
				"key", e.Key,
			)
		},
		OnRejected: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.InfoContext(ctx, "rejected",
				"session_id", e.SessionID,
				"op", e.Op,
				"step", e.Step,
				"reason", Reason(e.Err),
			)
		},
		OnComplete: func(ctx context.Context, e *domain.CompletionEvent) {
			logger.InfoContext(ctx, "complete",
				"session_id", e.SessionID,
				"flow_id", e.FlowID,
				"answered", e.Answered,
				"duration", e.Duration,
			)
		},
	}
}

var reasons = []struct {
	err   error
	label string
}{
	{domain.ErrWrongStep, "wrong_step"},
	{domain.ErrStepIncomplete, "step_incomplete"},
	{domain.ErrInvalidValue, "invalid_value"},
	{domain.ErrAtSummary, "at_summary"},
	{domain.ErrAtFirstStep, "at_first_step"},
	{domain.ErrNotAtSummary, "not_at_summary"},
	{domain.ErrCompleted, "completed"},
}

// Reason maps a rejection to a stable, low-cardinality label.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.label
		}
	}
	return "other"
}
