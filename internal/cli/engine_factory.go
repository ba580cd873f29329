package cli

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/flows"
	"github.com/aretw0/intake/pkg/adapters/process"
	"github.com/aretw0/intake/pkg/observability"
)

// NewEngine initializes an engine with standard CLI conventions:
// flows come from cfg.Dir (or the built-in catalog), completion hooks from
// hooks.yaml when it exists, and lifecycle events are logged at debug level.
// Extra options are applied last.
func NewEngine(cfg Config, logger *slog.Logger, opts ...intake.Option) (*intake.Engine, error) {
	engineOpts := []intake.Option{
		intake.WithLogger(logger),
		intake.WithLifecycleHooks(observability.LogHooks(logger)),
	}

	hooks, err := process.LoadHooks(cfg.hooksPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load hooks: %w", err)
	}
	if len(hooks) > 0 {
		sink := process.NewSink(hooks,
			process.WithBaseDir(cfg.baseDir()),
			process.WithLogger(logger),
		)
		logger.Debug("completion hooks registered", "hooks", sink.Hooks())
		engineOpts = append(engineOpts, intake.WithSink(sink))
	}

	if cfg.Dir == "" {
		loader, err := flows.Loader()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in flows: %w", err)
		}
		engineOpts = append(engineOpts, intake.WithLoader(loader))
	}

	engine, err := intake.New(cfg.Dir, append(engineOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// ResolveFlow returns flowID, or the only available flow when flowID is empty.
func ResolveFlow(engine *intake.Engine, flowID string) (string, error) {
	if flowID != "" {
		if _, err := engine.Flow(flowID); err != nil {
			return "", err
		}
		return flowID, nil
	}
	ids, err := engine.Flows()
	if err != nil {
		return "", err
	}
	sort.Strings(ids)
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("no flows found")
	case 1:
		return ids[0], nil
	}
	return "", fmt.Errorf("several flows available, pick one with --flow: %v", ids)
}
