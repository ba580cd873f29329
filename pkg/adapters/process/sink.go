// Package process hands completed sessions to local commands.
package process

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/aretw0/intake/internal/logging"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/ports"
)

const (
	// DefaultTimeout bounds a hook run when its config sets none.
	DefaultTimeout = 30 * time.Second
	// GracePeriod is how long a hook may take to exit after being interrupted.
	GracePeriod = 5 * time.Second
)

// Sink implements ports.CompletionSink by running allow-listed commands.
// Each matching hook receives the completion as JSON on stdin and the
// session coordinates as INTAKE_* environment variables. Answers are never
// passed as flags, so a user cannot inject arguments.
type Sink struct {
	hooks   []HookConfig
	baseDir string
	grace   time.Duration
	logger  *slog.Logger
}

// SinkOption configures the sink.
type SinkOption func(*Sink)

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) SinkOption {
	return func(s *Sink) {
		s.baseDir = dir
	}
}

// WithGracePeriod overrides GracePeriod.
func WithGracePeriod(d time.Duration) SinkOption {
	return func(s *Sink) {
		s.grace = d
	}
}

// WithLogger configures a logger for hook runs.
func WithLogger(logger *slog.Logger) SinkOption {
	return func(s *Sink) {
		s.logger = logger
	}
}

// NewSink creates a sink for the given hooks.
func NewSink(hooks []HookConfig, opts ...SinkOption) *Sink {
	s := &Sink{
		hooks:  append([]HookConfig(nil), hooks...),
		grace:  GracePeriod,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hooks returns the names of the registered hooks.
func (s *Sink) Hooks() []string {
	names := make([]string, len(s.hooks))
	for i, h := range s.hooks {
		names[i] = h.Name
	}
	return names
}

// Deliver runs every hook registered for the completion's flow.
// All hooks run even when one fails; the failures are joined.
func (s *Sink) Deliver(ctx context.Context, c domain.Completion) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal completion: %w", err)
	}

	var errs []error
	for _, h := range s.hooks {
		if !h.matches(c.FlowID) {
			continue
		}
		if err := s.run(ctx, h, c, payload); err != nil {
			errs = append(errs, fmt.Errorf("hook %s: %w", h.Name, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Sink) run(ctx context.Context, h HookConfig, c domain.Completion, payload []byte) error {
	timeout, err := h.timeout()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, h.Command, h.Args...)
	cmd.Dir = s.baseDir
	// Interrupt first; WaitDelay escalates to a kill after the grace period.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = s.grace

	env := cmd.Environ()
	for k, v := range h.Environment {
		env = append(env, k+"="+v)
	}
	env = append(env,
		"INTAKE_SESSION_ID="+c.SessionID,
		"INTAKE_FLOW_ID="+c.FlowID,
		"INTAKE_HOOK="+h.Name,
	)
	cmd.Env = env

	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	s.logger.Debug("completion hook finished",
		"hook", h.Name,
		"session_id", c.SessionID,
		"duration", time.Since(start),
		"stdout", strings.TrimSpace(stdout.String()),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w (%v)", ctxErr, err)
		}
		return fmt.Errorf("execution failed: %w. Stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

var _ ports.CompletionSink = (*Sink)(nil)
