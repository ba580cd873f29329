package runner

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
	"github.com/aretw0/intake/pkg/session"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithEngine configures the engine the runner drives. It is required.
func WithEngine(engine ports.WizardEngine) Option {
	return func(r *Runner) {
		r.engine = engine
	}
}

// WithFlow selects the flow new sessions start on.
func WithFlow(flowID string) Option {
	return func(r *Runner) {
		r.FlowID = flowID
	}
}

// WithSessions persists every accepted transition through m.
// Combined with WithSessionID, an existing session is resumed.
func WithSessions(m *session.Manager) Option {
	return func(r *Runner) {
		r.Sessions = m
	}
}

// WithSessionID sets the session ID. An empty ID is generated by the engine.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithIO sets the streams used by the default handlers.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		r.Input = in
		r.Output = out
	}
}

// WithHeadless sets the runner to headless mode.
func WithHeadless(headless bool) Option {
	return func(r *Runner) {
		r.Headless = headless
	}
}

// WithRenderer configures the content renderer (e.g. TUI, Markdown).
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithTypingDelay shows a typing indicator for d before each new step.
func WithTypingDelay(d time.Duration) Option {
	return func(r *Runner) {
		r.TypingDelay = d
	}
}

// WithInitialState resumes from state instead of starting or loading a session.
func WithInitialState(state *domain.State) Option {
	return func(r *Runner) {
		r.initialState = state
	}
}
