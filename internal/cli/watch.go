package cli

import (
	"context"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/runner"
)

// watchLoop runs the session and restarts it from its saved state whenever
// the flow repository reports a change. The handler is shared across runs so
// no buffered input is lost between them.
func watchLoop(ctx context.Context, engine *intake.Engine, handler runner.IOHandler, newRunner func() *runner.Runner) (*domain.State, error) {
	changes, err := engine.Watch(ctx)
	if err != nil {
		return nil, err
	}

	for {
		runCtx, cancel := context.WithCancel(ctx)
		reloaded := make(chan struct{})
		go func() {
			select {
			case _, ok := <-changes:
				if !ok {
					// Watcher stopped; keep running without reloads.
					<-runCtx.Done()
					return
				}
				close(reloaded)
				cancel()
			case <-runCtx.Done():
			}
		}()

		state, err := newRunner().Run(runCtx)
		cancel()

		select {
		case <-reloaded:
			_ = handler.SystemOutput(ctx, "Flow definitions changed, reloading.")
			continue
		default:
		}
		return state, err
	}
}
