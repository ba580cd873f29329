package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/session"
)

var (
	// ErrNoEngine is returned by Run when no engine was configured.
	ErrNoEngine = errors.New("runner: no engine configured")
	// ErrInterrupted is returned when a signal or the parent context stops the loop.
	// The last accepted state is returned alongside it and, with a session manager, already saved.
	ErrInterrupted = errors.New("interrupted")
)

// Runner handles the turn loop of a wizard session using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, one is built from Input/Output and Headless.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Sessions persists every accepted transition.
	// If nil, sessions are ephemeral.
	Sessions *session.Manager

	SessionID string
	FlowID    string

	// Headless selects the JSON handler when Handler is nil.
	Headless bool
	Renderer ContentRenderer

	// TypingDelay is shown as a "typing" signal before each new step. Zero disables it.
	TypingDelay time.Duration

	Input  io.Reader
	Output io.Writer

	engine       ports.WizardEngine
	initialState *domain.State
}

// NewRunner creates a new Runner with default Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives the session until it is completed, the input ends or the user quits.
// It returns the last accepted state. Rejected answers are reported through the
// handler and never end the loop.
func (r *Runner) Run(ctx context.Context) (*domain.State, error) {
	if r.engine == nil {
		return nil, ErrNoEngine
	}

	signals := NewSignalManager(ctx)
	defer signals.Stop()
	ctx = signals.Context()

	handler := r.resolveHandler()

	state, resumed, err := r.resolveInitialState(ctx)
	if err != nil {
		return nil, err
	}
	r.greet(ctx, handler, state, resumed)

	lastShown := -1
	for {
		view, err := r.engine.View(ctx, state)
		if err != nil {
			return state, fmt.Errorf("render error: %w", err)
		}

		if lastShown != -1 && view.Current != lastShown {
			if err := r.pause(ctx, handler); err != nil {
				return state, err
			}
		}
		if err := handler.Output(ctx, view); err != nil {
			return state, fmt.Errorf("output error: %w", err)
		}
		lastShown = view.Current

		if state.Completed() {
			return state, nil
		}

		line, err := handler.Input(ctx)
		if err != nil {
			if signals.Interrupted() {
				return state, ErrInterrupted
			}
			if errors.Is(err, io.EOF) {
				return state, nil
			}
			if errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8) {
				_ = handler.SystemOutput(ctx, fmt.Sprintf("Error: %v. Please try again.", err))
				continue
			}
			return state, fmt.Errorf("input error: %w", err)
		}

		cmd := ParseCommand(line, view)
		if cmd.Action == ActionQuit {
			return state, nil
		}

		next, err := r.apply(ctx, state, view, cmd)
		if next != state {
			if saveErr := r.save(ctx, next); saveErr != nil {
				return state, fmt.Errorf("critical persistence error: %w", saveErr)
			}
			state = next
		}
		if err != nil {
			if domain.IsValidation(err) || errors.Is(err, domain.ErrDeliveryFailed) {
				r.Logger.Debug("command rejected", "session_id", state.SessionID, "op", cmd.Action.String(), "err", err)
				_ = handler.SystemOutput(ctx, Describe(err))
				continue
			}
			return state, err
		}
	}
}

// apply runs cmd against the engine. The returned state is always the one to keep:
// on rejection the engine hands back its input unchanged.
// Answers to single-choice and free-form questions advance on their own; multi-select
// answers toggle and wait for "next".
func (r *Runner) apply(ctx context.Context, state *domain.State, view domain.View, cmd Command) (*domain.State, error) {
	switch cmd.Action {
	case ActionSubmit:
		next, err := r.engine.Submit(ctx, state, state.Current, cmd.Value)
		if err != nil {
			return state, err
		}
		if q, ok := currentQuestion(view); ok && q.Kind == domain.KindMulti {
			return next, nil
		}
		return r.engine.Advance(ctx, next)
	case ActionAdvance:
		return r.engine.Advance(ctx, state)
	case ActionBack:
		return r.engine.Back(ctx, state)
	case ActionComplete:
		return r.engine.Complete(ctx, state)
	}
	return state, fmt.Errorf("unsupported action %s", cmd.Action)
}

func (r *Runner) save(ctx context.Context, state *domain.State) error {
	if r.Sessions == nil {
		return nil
	}
	// A signal may already have cancelled ctx; the accepted state must still land.
	if err := r.Sessions.Save(context.WithoutCancel(ctx), state.SessionID, state); err != nil {
		return err
	}
	r.Logger.Debug("state saved", "session_id", state.SessionID, "step", state.Current)
	return nil
}

// pause shows the typing indicator and waits TypingDelay, or until ctx ends.
func (r *Runner) pause(ctx context.Context, handler IOHandler) error {
	if r.TypingDelay <= 0 {
		return nil
	}
	if err := handler.Signal(ctx, SignalTyping); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	timer := time.NewTimer(r.TypingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ErrInterrupted
	case <-timer.C:
		return nil
	}
}

func (r *Runner) greet(ctx context.Context, handler IOHandler, state *domain.State, resumed bool) {
	if resumed {
		_ = handler.SystemOutput(ctx, fmt.Sprintf("Resuming session %s.", state.SessionID))
		return
	}
	f, err := r.engine.Flow(state.FlowID)
	if err != nil || f.Intro() == "" {
		return
	}
	_ = handler.SystemOutput(ctx, f.Intro())
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	if r.Headless {
		r.Handler = NewJSONHandler(r.Input, r.Output)
	} else {
		r.Handler = NewTextHandler(r.Input, r.Output, WithTextHandlerRenderer(r.Renderer))
	}
	return r.Handler
}

// resolveInitialState returns the state to start from and whether it was resumed
// from the session store.
func (r *Runner) resolveInitialState(ctx context.Context) (*domain.State, bool, error) {
	if r.initialState != nil {
		return r.initialState, false, nil
	}

	if r.Sessions == nil {
		state, err := r.engine.Start(ctx, r.FlowID, r.SessionID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to create initial state: %w", err)
		}
		return state, false, nil
	}

	if r.SessionID != "" {
		state, err := r.Sessions.Load(ctx, r.SessionID)
		if err == nil {
			if r.FlowID != "" && state.FlowID != r.FlowID {
				return nil, false, fmt.Errorf("session %s belongs to flow %s, not %s", r.SessionID, state.FlowID, r.FlowID)
			}
			return state, true, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, false, fmt.Errorf("failed to load session %s: %w", r.SessionID, err)
		}
	}

	state, err := r.Sessions.Start(ctx, r.engine, r.FlowID, r.SessionID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to initialize session: %w", err)
	}
	return state, false, nil
}

// Describe turns an engine rejection into a message for the person at the keyboard.
func Describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrStepIncomplete):
		return "Please answer this question before continuing."
	case errors.Is(err, domain.ErrInvalidValue):
		var v *domain.ValidationError
		if errors.As(err, &v) && v.Detail != "" {
			return "That is not a valid answer here: " + v.Detail + "."
		}
		return "That is not a valid answer here."
	case errors.Is(err, domain.ErrAtSummary):
		return "You are on the summary. Type `confirm` to submit or `back` to edit."
	case errors.Is(err, domain.ErrAtFirstStep):
		return "This is the first question."
	case errors.Is(err, domain.ErrNotAtSummary):
		return "Answer the remaining questions before confirming."
	case errors.Is(err, domain.ErrCompleted):
		return "This session is already completed."
	case errors.Is(err, domain.ErrDeliveryFailed):
		return "Your answers could not be submitted. Type `confirm` to try again."
	}
	return err.Error()
}
