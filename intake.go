package intake

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/loam"

	"github.com/aretw0/intake/internal/runtime"
	loamAdapter "github.com/aretw0/intake/pkg/adapters/loam"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
	"github.com/aretw0/intake/pkg/ports"
)

// Engine is the high-level entry point for the intake library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime      *runtime.Engine
	loader       ports.FlowLoader
	interpolator runtime.Interpolator
	sinks        []ports.CompletionSink
	delimiter    string
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	Name         string
}

var _ ports.WizardEngine = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
// Calling it more than once merges the hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLoader injects a custom FlowLoader, bypassing the default Loam initialization.
func WithLoader(l ports.FlowLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithInterpolator sets a custom prompt interpolator for the engine.
func WithInterpolator(interp runtime.Interpolator) Option {
	return func(e *Engine) {
		e.interpolator = interp
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSink registers a completion sink. Sinks run in registration order.
func WithSink(sink ports.CompletionSink) Option {
	return func(e *Engine) {
		e.sinks = append(e.sinks, sink)
	}
}

// WithDelimiter sets the separator for multi-select values in summaries (default ", ").
func WithDelimiter(delim string) Option {
	return func(e *Engine) {
		e.delimiter = delim
	}
}

// New initializes a new intake Engine.
// By default, it reads flow definitions from a Loam repository at the given path.
// If WithLoader option is provided, repoPath can be empty and Loam is skipped.
func New(repoPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{delimiter: runtime.DefaultDelimiter}

	// Apply Options first to check if a loader is provided
	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if repoPath == "" {
			return nil, fmt.Errorf("repoPath is required when no custom loader is provided")
		}

		absPath, err := filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		// Strict mode keeps numbers as json.Number across markdown, JSON and YAML.
		// The engine never writes flow definitions, so the repository is read-only.
		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}

		typedRepo := loam.NewTypedRepository[loamAdapter.FlowMetadata](repo)
		eng.loader = loamAdapter.New(typedRepo)
	} else if repoPath != "" {
		eng.Name = filepath.Base(repoPath)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("repo", eng.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithDelimiter(eng.delimiter),
		runtime.WithSinks(eng.sinks...),
	}
	if eng.interpolator != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithInterpolator(eng.interpolator))
	}

	eng.runtime = runtime.NewEngine(eng.loader, runtimeOpts...)
	return eng, nil
}

// Start creates the initial state of a session on the given flow.
// An empty sessionID is replaced by a generated one.
func (e *Engine) Start(ctx context.Context, flowID, sessionID string) (*domain.State, error) {
	return e.runtime.Start(ctx, flowID, sessionID)
}

// Submit applies value to the current step.
// Multi-select questions toggle value; other kinds replace the stored answer.
func (e *Engine) Submit(ctx context.Context, state *domain.State, step int, value string) (*domain.State, error) {
	return e.runtime.Submit(ctx, state, step, value)
}

// Advance moves to the next visible step once the current one is complete.
func (e *Engine) Advance(ctx context.Context, state *domain.State) (*domain.State, error) {
	return e.runtime.Advance(ctx, state)
}

// Back returns to the previously visited step.
func (e *Engine) Back(ctx context.Context, state *domain.State) (*domain.State, error) {
	return e.runtime.Back(ctx, state)
}

// Complete confirms the summary and hands the answers to the registered sinks.
func (e *Engine) Complete(ctx context.Context, state *domain.State) (*domain.State, error) {
	return e.runtime.Complete(ctx, state)
}

// View renders the visited steps and, on the summary step, the summary.
func (e *Engine) View(ctx context.Context, state *domain.State) (domain.View, error) {
	return e.runtime.View(ctx, state)
}

// Summary projects the visited answers as labelled lines.
func (e *Engine) Summary(ctx context.Context, state *domain.State) ([]domain.SummaryEntry, error) {
	return e.runtime.Summary(ctx, state)
}

// Flow returns the definition of a flow, for visualization or introspection tools.
func (e *Engine) Flow(id string) (*flow.Flow, error) {
	return e.runtime.Flow(id)
}

// Flows lists the available flow IDs.
func (e *Engine) Flows() ([]string, error) {
	return e.runtime.Flows()
}

// Watch returns a channel that signals when the underlying flow definitions change.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying FlowLoader used by the engine.
func (e *Engine) Loader() ports.FlowLoader {
	return e.loader
}
