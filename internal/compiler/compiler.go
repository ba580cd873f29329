package compiler

import (
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
)

// Compile turns a Definition into a validated flow.
// Kinds default to single-select when options are declared and to free text otherwise.
func Compile(def *Definition) (*flow.Flow, error) {
	questions := make([]domain.Question, len(def.Questions))
	for i, qd := range def.Questions {
		questions[i] = compileQuestion(qd)
	}

	var opts []flow.Option
	if def.Intro != "" {
		opts = append(opts, flow.WithIntro(def.Intro))
	}

	title := def.Title
	if title == "" {
		title = def.ID
	}
	return flow.New(def.ID, title, questions, opts...)
}

func compileQuestion(qd QuestionDef) domain.Question {
	kind := domain.Kind(qd.Kind)
	if kind == "" {
		if len(qd.Options) > 0 {
			kind = domain.KindSingle
		} else {
			kind = domain.KindText
		}
	}

	optional := qd.Optional
	if qd.Required != nil {
		optional = !*qd.Required
	}

	q := domain.Question{
		Key:         qd.Key,
		Prompt:      qd.Prompt,
		Label:       qd.Label,
		Kind:        kind,
		Options:     append([]string(nil), qd.Options...),
		Optional:    optional,
		Placeholder: qd.Placeholder,
	}
	if qd.When != nil {
		w := qd.When.Clone()
		q.When = &w
	}
	return q
}

// ParseAndCompile is the one-call path from raw bytes to a flow.
func ParseAndCompile(data []byte) (*flow.Flow, error) {
	def, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Compile(def)
}

// Export returns the serialisable definition of f.
func Export(f *flow.Flow) *Definition {
	def := &Definition{
		ID:    f.ID(),
		Title: f.Title(),
		Intro: f.Intro(),
	}
	for _, q := range f.Questions() {
		def.Questions = append(def.Questions, FromQuestion(q))
	}
	return def
}
