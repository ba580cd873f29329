package cli

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/internal/presentation/tui"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/runner"
	"github.com/aretw0/intake/pkg/session"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Config

	FlowID    string
	SessionID string
	// Fresh discards a stored session with the same ID before starting.
	Fresh bool
	// Headless disables the banner, markdown rendering and the typing delay.
	Headless bool
	// JSON switches to one JSON message per line on both streams.
	JSON bool
	// Watch restarts the session from its saved state when flow files change.
	Watch       bool
	TypingDelay time.Duration

	In  io.Reader
	Out io.Writer
}

// Run executes one wizard session in the terminal.
func Run(ctx context.Context, opts RunOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Watch && (opts.Headless || opts.JSON) {
		return fmt.Errorf("--watch cannot be combined with --headless or --json")
	}
	if opts.Watch && opts.Dir == "" {
		return fmt.Errorf("--watch needs a flow directory (--dir)")
	}

	logger, err := opts.Logger()
	if err != nil {
		return err
	}
	engine, err := NewEngine(opts.Config, logger)
	if err != nil {
		return err
	}
	flowID, err := ResolveFlow(engine, opts.FlowID)
	if err != nil {
		return err
	}

	quiet := opts.JSON || opts.Headless
	if !quiet {
		tui.PrintBanner(opts.Out, intake.Version)
	}

	// Watch mode needs a session so a reload can resume where the user was.
	if opts.Watch && opts.SessionID == "" {
		abs, _ := filepath.Abs(opts.Dir)
		hash := md5.Sum([]byte(abs + flowID))
		opts.SessionID = fmt.Sprintf("watch-%x", hash[:4])
	}

	var sessions *session.Manager
	if opts.SessionID != "" {
		m, closeFn, err := OpenSessions(ctx, opts.Config, logger)
		if err != nil {
			return err
		}
		defer closeFn()
		sessions = m

		if opts.Fresh {
			if err := sessions.Delete(ctx, opts.SessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
				return fmt.Errorf("failed to reset session: %w", err)
			}
		}
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		var textOpts []runner.TextHandlerOption
		if !opts.Headless {
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
		}
		handler = runner.NewTextHandler(opts.In, opts.Out, textOpts...)
	}

	newRunner := func() *runner.Runner {
		runnerOpts := []runner.Option{
			runner.WithEngine(engine),
			runner.WithFlow(flowID),
			runner.WithSessionID(opts.SessionID),
			runner.WithInputHandler(handler),
			runner.WithLogger(logger),
		}
		if sessions != nil {
			runnerOpts = append(runnerOpts, runner.WithSessions(sessions))
		}
		if !quiet {
			runnerOpts = append(runnerOpts, runner.WithTypingDelay(opts.TypingDelay))
		}
		return runner.NewRunner(runnerOpts...)
	}

	var state *domain.State
	if opts.Watch {
		state, err = watchLoop(ctx, engine, handler, newRunner)
	} else {
		state, err = newRunner().Run(ctx)
	}

	if !quiet {
		reportOutcome(opts.Out, state, opts.SessionID, err)
	}
	if errors.Is(err, runner.ErrInterrupted) {
		return nil
	}
	return err
}

func reportOutcome(w io.Writer, state *domain.State, sessionID string, err error) {
	switch {
	case state == nil:
		return
	case errors.Is(err, runner.ErrInterrupted):
		fmt.Fprintf(w, "\n>>> Interrupted at step %d.\n", state.Current)
	case err != nil:
		return
	case state.Completed():
		fmt.Fprintf(w, ">>> Session %s completed.\n", state.SessionID)
		return
	}
	if sessionID != "" {
		fmt.Fprintf(w, ">>> Progress saved. Resume with: intake run --session %s\n", sessionID)
	}
}
