package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/intake/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// The pump reads in its own goroutine so Input can return as soon as ctx is done.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, view domain.View) error {
	output := RenderMarkdown(view)
	if h.Renderer != nil {
		if rendered, err := h.Renderer(output); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, strings.TrimSpace(output))
	return err
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

func (h *TextHandler) Signal(ctx context.Context, name string) error {
	if name == SignalTyping {
		_, err := fmt.Fprintln(h.Writer, "…")
		return err
	}
	return nil
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return err
}

// RenderMarkdown formats the current turn of view as markdown.
// Only the current step is shown; earlier answers stay in the scrollback.
func RenderMarkdown(view domain.View) string {
	var sb strings.Builder

	if view.Completed {
		sb.WriteString("**All done.** Your answers were submitted.\n")
		return sb.String()
	}

	if view.Terminal {
		sb.WriteString("## Summary\n\n")
		if len(view.Summary) == 0 {
			sb.WriteString("_No answers._\n")
		}
		for _, e := range view.Summary {
			value := e.Value
			if value == "" {
				value = "_(skipped)_"
			}
			fmt.Fprintf(&sb, "- **%s:** %s\n", e.Label, value)
		}
		sb.WriteString("\nType `confirm` to submit or `back` to edit.\n")
		return sb.String()
	}

	step, ok := currentStep(view)
	if !ok {
		return ""
	}
	q := step.Question

	fmt.Fprintf(&sb, "**%s**\n\n", step.Prompt)
	for i, c := range step.Choices {
		mark := ""
		if q.Kind == domain.KindMulti {
			mark = "[ ] "
			if c.Selected {
				mark = "[x] "
			}
		} else if c.Selected {
			mark = "(•) "
		}
		fmt.Fprintf(&sb, "%d. %s%s\n", i+1, mark, c.Label)
	}

	switch {
	case q.Kind == domain.KindMulti:
		sb.WriteString("\n_Pick options one at a time, then type `next`._\n")
	case len(step.Choices) == 0 && step.Answer.Value != "":
		fmt.Fprintf(&sb, "_Current answer: %s (press enter to keep it)_\n", step.Answer.Value)
	case q.Placeholder != "":
		fmt.Fprintf(&sb, "_e.g. %s_\n", q.Placeholder)
	}
	if !q.Required() {
		sb.WriteString("_Optional: type `next` to skip._\n")
	}
	return sb.String()
}

func currentStep(view domain.View) (domain.StepView, bool) {
	for _, s := range view.Steps {
		if s.Current {
			return s, true
		}
	}
	return domain.StepView{}, false
}
