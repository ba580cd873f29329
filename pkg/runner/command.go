package runner

import (
	"strconv"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
)

// Action is what a line of input asks the runner to do.
type Action int

const (
	ActionSubmit Action = iota
	ActionAdvance
	ActionBack
	ActionComplete
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionSubmit:
		return "submit"
	case ActionAdvance:
		return "advance"
	case ActionBack:
		return "back"
	case ActionComplete:
		return "complete"
	case ActionQuit:
		return "quit"
	}
	return "unknown"
}

// Command is a parsed line of input.
type Command struct {
	Action Action
	Value  string
}

// ParseCommand interprets line against the current step of view.
// Reserved words win over answers, except when the word is itself one of
// the options of a select question.
func ParseCommand(line string, view domain.View) Command {
	text := strings.TrimSpace(line)
	q, onQuestion := currentQuestion(view)

	if onQuestion && q.Kind.IsSelect() && q.HasOption(text) {
		return Command{Action: ActionSubmit, Value: text}
	}

	switch strings.ToLower(text) {
	case "", "next":
		return Command{Action: ActionAdvance}
	case "back":
		return Command{Action: ActionBack}
	case "confirm":
		return Command{Action: ActionComplete}
	case "exit", "quit":
		return Command{Action: ActionQuit}
	}

	if onQuestion && q.Kind.IsSelect() {
		if n, err := strconv.Atoi(text); err == nil && n >= 1 && n <= len(q.Options) {
			return Command{Action: ActionSubmit, Value: q.Options[n-1]}
		}
	}
	return Command{Action: ActionSubmit, Value: text}
}

func currentQuestion(view domain.View) (domain.Question, bool) {
	if view.Terminal {
		return domain.Question{}, false
	}
	for _, s := range view.Steps {
		if s.Current {
			return s.Question, true
		}
	}
	return domain.Question{}, false
}
