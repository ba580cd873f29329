package domain

// Kind defines how a question collects its answer.
type Kind string

const (
	// KindSingle selects exactly one of the declared options.
	KindSingle Kind = "single"
	// KindMulti toggles any number of the declared options.
	KindMulti Kind = "multi"
	// KindText accepts free text, kept verbatim.
	KindText Kind = "text"
	// KindNumber accepts a decimal number written as text.
	KindNumber Kind = "number"
)

// IsSelect reports whether the kind draws its answers from Options.
func (k Kind) IsSelect() bool {
	return k == KindSingle || k == KindMulti
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindSingle, KindMulti, KindText, KindNumber:
		return true
	}
	return false
}

// Predicate decides visibility from the answers gathered so far.
type Predicate func(Answers) bool

// PromptFunc produces the prompt text from the answers gathered so far.
type PromptFunc func(Answers) string

// Question represents one step of a wizard flow.
type Question struct {
	// Key identifies the question inside its flow and keys its answer.
	Key string `json:"key" yaml:"key"`

	// Prompt is the text shown to the user.
	// It may reference earlier answers with template syntax, e.g. "Thanks {{ .name }}!".
	Prompt string `json:"prompt" yaml:"prompt"`

	// Label is the caption used on the summary step. Defaults to Prompt.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	Kind    Kind     `json:"kind" yaml:"kind"`
	Options []string `json:"options,omitempty" yaml:"options,omitempty"`

	// Optional relaxes the continuation gate. Questions are required by default.
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`

	// Placeholder is a hint for free-text inputs.
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`

	// When is the serialisable visibility rule. Nil means always visible.
	When *Condition `json:"when,omitempty" yaml:"when,omitempty"`

	// PromptFunc overrides Prompt when set. Not serialised.
	PromptFunc PromptFunc `json:"-" yaml:"-"`

	// VisibleWhen is an in-process visibility rule, combined with When using AND.
	VisibleWhen Predicate `json:"-" yaml:"-"`
}

// Required reports whether the question gates Advance.
func (q Question) Required() bool {
	return !q.Optional
}

// DisplayLabel returns the caption for summaries.
func (q Question) DisplayLabel() string {
	if q.Label != "" {
		return q.Label
	}
	if q.Prompt != "" {
		return q.Prompt
	}
	return q.Key
}

// HasOption reports whether opt is one of the declared options.
func (q Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// Conditional reports whether the question may be skipped.
func (q Question) Conditional() bool {
	return q.When != nil || q.VisibleWhen != nil
}

// Visible evaluates the question's visibility against the answers.
func (q Question) Visible(answers Answers) bool {
	if q.When != nil && !q.When.Match(answers) {
		return false
	}
	if q.VisibleWhen != nil && !q.VisibleWhen(answers) {
		return false
	}
	return true
}

// Clone returns a copy that shares no slices with q.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	if q.When != nil {
		w := q.When.Clone()
		out.When = &w
	}
	return out
}
