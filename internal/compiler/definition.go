package compiler

import "github.com/aretw0/intake/pkg/domain"

// Definition is the serialisable form of a flow, as written in YAML, JSON
// or markdown frontmatter.
type Definition struct {
	ID        string        `json:"id" yaml:"id" mapstructure:"id"`
	Title     string        `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Intro     string        `json:"intro,omitempty" yaml:"intro,omitempty" mapstructure:"intro"`
	Questions []QuestionDef `json:"questions" yaml:"questions" mapstructure:"questions"`
}

// QuestionDef is one question of a Definition.
type QuestionDef struct {
	Key         string   `json:"key" yaml:"key" mapstructure:"key"`
	Prompt      string   `json:"prompt" yaml:"prompt" mapstructure:"prompt"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	Kind        string   `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty" mapstructure:"options"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty" mapstructure:"placeholder"`

	// Optional and Required are two spellings of the same switch.
	// Required wins when both are present.
	Optional bool  `json:"optional,omitempty" yaml:"optional,omitempty" mapstructure:"optional"`
	Required *bool `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`

	When *domain.Condition `json:"when,omitempty" yaml:"when,omitempty" mapstructure:"when"`
}

// FromQuestion converts a domain question back to its serialisable form.
// In-process predicates and prompt functions are dropped.
func FromQuestion(q domain.Question) QuestionDef {
	def := QuestionDef{
		Key:         q.Key,
		Prompt:      q.Prompt,
		Label:       q.Label,
		Kind:        string(q.Kind),
		Options:     append([]string(nil), q.Options...),
		Placeholder: q.Placeholder,
		Optional:    q.Optional,
	}
	if q.When != nil {
		w := q.When.Clone()
		def.When = &w
	}
	return def
}
