package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
	"github.com/aretw0/intake/pkg/ports"
)

// DefaultDelimiter joins multi-select values on the summary step.
const DefaultDelimiter = ", "

// Engine is the wizard state machine.
// It is stateless: every operation takes a state, never mutates it, and returns the next one.
type Engine struct {
	loader       ports.FlowLoader
	interpolator Interpolator
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	sinks        []ports.CompletionSink
	delimiter    string
	now          func() time.Time
	newID        func() string
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithInterpolator replaces the prompt interpolator.
func WithInterpolator(interp Interpolator) EngineOption {
	return func(e *Engine) {
		if interp != nil {
			e.interpolator = interp
		}
	}
}

// WithSinks appends completion sinks, invoked in order by Complete.
func WithSinks(sinks ...ports.CompletionSink) EngineOption {
	return func(e *Engine) {
		e.sinks = append(e.sinks, sinks...)
	}
}

// WithDelimiter sets the separator used for multi-select values in summaries.
func WithDelimiter(delim string) EngineOption {
	return func(e *Engine) {
		e.delimiter = delim
	}
}

// WithClock overrides the time source. Useful for deterministic tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator overrides how session IDs are generated when Start receives none.
func WithIDGenerator(gen func() string) EngineOption {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// NewEngine creates a new engine reading flows from loader.
func NewEngine(loader ports.FlowLoader, opts ...EngineOption) *Engine {
	e := &Engine{
		loader:       loader,
		interpolator: DefaultInterpolator,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		delimiter:    DefaultDelimiter,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Flow resolves a flow definition through the loader.
func (e *Engine) Flow(id string) (*flow.Flow, error) {
	f, err := e.loader.GetFlow(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load flow %s: %w", id, err)
	}
	return f, nil
}

// Flows lists the IDs served by the loader.
func (e *Engine) Flows() ([]string, error) {
	return e.loader.ListFlows()
}

// Start creates the initial state of a session.
// The first step is the first visible question, or the summary when none is visible.
func (e *Engine) Start(ctx context.Context, flowID, sessionID string) (*domain.State, error) {
	f, err := e.Flow(flowID)
	if err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = e.newID()
	}

	first := f.NextVisible(-1, domain.Answers{})
	state := domain.NewState(sessionID, f.ID(), first)
	now := e.now()
	state.CreatedAt = now
	state.UpdatedAt = now

	e.logger.Debug("session started", "session_id", sessionID, "flow_id", f.ID(), "step", first)
	e.emitStepEnter(ctx, f, state)
	return state, nil
}

// load resolves the flow of state and checks the state fits in it.
func (e *Engine) load(state *domain.State) (*flow.Flow, error) {
	if state == nil {
		return nil, fmt.Errorf("state is nil")
	}
	f, err := e.Flow(state.FlowID)
	if err != nil {
		return nil, err
	}
	if state.Current < 0 || state.Current > f.Len() {
		return nil, fmt.Errorf("session %s: step %d is out of range for flow %s", state.SessionID, state.Current, f.ID())
	}
	if n := len(state.Visited); n == 0 || state.Visited[n-1] != state.Current {
		return nil, fmt.Errorf("session %s: visited path %v does not end at step %d", state.SessionID, state.Visited, state.Current)
	}
	return f, nil
}

// cloneState returns a deep copy of src, safe to mutate.
func (e *Engine) cloneState(src *domain.State) *domain.State {
	next := src.Snapshot()
	next.UpdatedAt = e.now()
	return next
}

// reject reports a refused operation and returns the untouched state with a ValidationError.
func (e *Engine) reject(ctx context.Context, state *domain.State, op string, key string, cause error, detail string) (*domain.State, error) {
	verr := &domain.ValidationError{
		Op:     op,
		Step:   state.Current,
		Key:    key,
		Err:    cause,
		Detail: detail,
	}
	e.logger.Debug("operation rejected", "session_id", state.SessionID, "op", op, "step", state.Current, "err", cause)
	if e.hooks.OnRejected != nil {
		e.hooks.OnRejected(ctx, &domain.AnswerEvent{
			EventBase: e.base(domain.EventRejected, state),
			Op:        op,
			Step:      state.Current,
			Key:       key,
			Value:     detail,
			Err:       verr,
		})
	}
	return state, verr
}

func (e *Engine) base(t domain.EventType, state *domain.State) domain.EventBase {
	return domain.EventBase{
		Timestamp: e.now(),
		Type:      t,
		SessionID: state.SessionID,
		FlowID:    state.FlowID,
	}
}

func (e *Engine) stepEvent(t domain.EventType, f *flow.Flow, state *domain.State) *domain.StepEvent {
	ev := &domain.StepEvent{
		EventBase: e.base(t, state),
		Step:      state.Current,
		Terminal:  f.IsTerminal(state.Current),
	}
	if q, ok := f.Question(state.Current); ok {
		ev.Key = q.Key
	}
	return ev
}

func (e *Engine) emitStepEnter(ctx context.Context, f *flow.Flow, state *domain.State) {
	if e.hooks.OnStepEnter != nil {
		e.hooks.OnStepEnter(ctx, e.stepEvent(domain.EventStepEnter, f, state))
	}
}

func (e *Engine) emitStepLeave(ctx context.Context, f *flow.Flow, state *domain.State) {
	if e.hooks.OnStepLeave != nil {
		e.hooks.OnStepLeave(ctx, e.stepEvent(domain.EventStepLeave, f, state))
	}
}

var _ ports.WizardEngine = (*Engine)(nil)
