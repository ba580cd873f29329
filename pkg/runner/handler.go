package runner

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents the view of the current turn.
	Output(ctx context.Context, view domain.View) error

	// Input reads a response from the user.
	Input(ctx context.Context) (string, error)

	// Signal notifies the handler of a cosmetic event such as "typing".
	// It must not block.
	Signal(ctx context.Context, name string) error

	// SystemOutput presents a meta-message (rejections, notices).
	// This is distinct from content rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Signal names emitted by the runner.
const (
	SignalTyping = "typing"
)
