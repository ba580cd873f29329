// Package flow holds the Step Definition Table of a wizard: an ordered,
// immutable list of questions followed by an implicit summary step.
package flow

import (
	"fmt"

	"github.com/aretw0/intake/pkg/domain"
)

// Flow is a validated, immutable sequence of questions.
// Step indices run from 0 to Len(); index Len() is the summary step.
type Flow struct {
	id        string
	title     string
	intro     string
	questions []domain.Question
	index     map[string]int
}

// Option configures optional flow attributes.
type Option func(*Flow)

// WithIntro sets the text shown before the first question.
func WithIntro(text string) Option {
	return func(f *Flow) {
		f.intro = text
	}
}

// New validates the questions and builds a flow.
// It fails with a *domain.ConfigurationError (or an AggregateError of them)
// when the table is inconsistent; keys are never silently overwritten.
func New(id, title string, questions []domain.Question, opts ...Option) (*Flow, error) {
	f := &Flow{
		id:        id,
		title:     title,
		questions: make([]domain.Question, len(questions)),
		index:     make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		f.questions[i] = q.Clone()
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// MustNew is like New but panics on configuration errors.
// It is meant for flows declared as package-level values.
func MustNew(id, title string, questions []domain.Question, opts ...Option) *Flow {
	f, err := New(id, title, questions, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Flow) validate() error {
	var errs []error
	fail := func(key, format string, args ...any) {
		errs = append(errs, &domain.ConfigurationError{
			FlowID: f.id,
			Key:    key,
			Reason: fmt.Sprintf(format, args...),
		})
	}

	if f.id == "" {
		fail("", "flow id is required")
	}

	for i, q := range f.questions {
		if q.Key == "" {
			fail("", "question %d has no key", i)
			continue
		}
		if prev, dup := f.index[q.Key]; dup {
			fail(q.Key, "duplicate key (already declared at step %d)", prev)
			continue
		}

		if !q.Kind.Valid() {
			fail(q.Key, "unknown kind %q", q.Kind)
		}
		if q.Prompt == "" && q.PromptFunc == nil {
			fail(q.Key, "missing prompt")
		}

		if q.Kind.IsSelect() {
			if len(q.Options) == 0 {
				fail(q.Key, "%s question requires options", q.Kind)
			}
			seen := make(map[string]bool, len(q.Options))
			for _, opt := range q.Options {
				if opt == "" {
					fail(q.Key, "empty option")
				} else if seen[opt] {
					fail(q.Key, "duplicate option %q", opt)
				}
				seen[opt] = true
			}
		} else if len(q.Options) > 0 {
			fail(q.Key, "%s question cannot declare options", q.Kind)
		}

		if q.When != nil {
			if err := q.When.Validate(); err != nil {
				fail(q.Key, "invalid condition: %v", err)
			}
			// Conditions may only read answers of earlier steps: later ones are
			// never answered when the step is reached.
			for _, ref := range q.When.Keys() {
				if _, earlier := f.index[ref]; !earlier {
					fail(q.Key, "condition references %q, which is not declared before this question", ref)
				}
			}
		}

		f.index[q.Key] = i
	}

	if len(errs) == 1 {
		return errs[0]
	}
	if len(errs) > 1 {
		return &domain.AggregateError{Errors: errs}
	}
	return nil
}

// ID returns the flow identifier.
func (f *Flow) ID() string { return f.id }

// Title returns the human-readable flow name.
func (f *Flow) Title() string { return f.title }

// Intro returns the text shown before the first question.
func (f *Flow) Intro() string { return f.intro }

// Len returns the number of declared questions, which is also the
// index of the summary step.
func (f *Flow) Len() int { return len(f.questions) }

// IsTerminal reports whether step is the summary step.
func (f *Flow) IsTerminal(step int) bool { return step == len(f.questions) }

// Question returns a copy of the question at step.
// It returns false for the summary step and out-of-range indices.
func (f *Flow) Question(step int) (domain.Question, bool) {
	if step < 0 || step >= len(f.questions) {
		return domain.Question{}, false
	}
	return f.questions[step].Clone(), true
}

// IndexOf returns the step index of key, or -1.
func (f *Flow) IndexOf(key string) int {
	if i, ok := f.index[key]; ok {
		return i
	}
	return -1
}

// Questions returns a copy of the declared questions.
func (f *Flow) Questions() []domain.Question {
	out := make([]domain.Question, len(f.questions))
	for i, q := range f.questions {
		out[i] = q.Clone()
	}
	return out
}

// NextVisible scans forward from step+1 and returns the first step whose
// visibility holds against answers, or Len() when none remains.
func (f *Flow) NextVisible(step int, answers domain.Answers) int {
	for i := step + 1; i < len(f.questions); i++ {
		if f.questions[i].Visible(answers) {
			return i
		}
	}
	return len(f.questions)
}
