package dsl

import (
	"fmt"

	"github.com/aretw0/intake/pkg/adapters/memory"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
)

// Builder manages the construction of one flow.
type Builder struct {
	id        string
	title     string
	intro     string
	questions []*QuestionBuilder
}

// New creates a new flow builder.
func New(id string) *Builder {
	return &Builder{id: id}
}

// Title sets the human-readable flow name.
func (b *Builder) Title(title string) *Builder {
	b.title = title
	return b
}

// Intro sets the text shown before the first question.
func (b *Builder) Intro(text string) *Builder {
	b.intro = text
	return b
}

// Add appends a question of the given kind.
// Keys are not deduplicated here: Build reports duplicates.
func (b *Builder) Add(key string, kind domain.Kind, prompt string) *QuestionBuilder {
	qb := &QuestionBuilder{
		question: domain.Question{Key: key, Kind: kind, Prompt: prompt},
		builder:  b,
	}
	b.questions = append(b.questions, qb)
	return qb
}

// Single appends a single-select question.
func (b *Builder) Single(key, prompt string, options ...string) *QuestionBuilder {
	return b.Add(key, domain.KindSingle, prompt).Options(options...)
}

// Multi appends a multi-select question.
func (b *Builder) Multi(key, prompt string, options ...string) *QuestionBuilder {
	return b.Add(key, domain.KindMulti, prompt).Options(options...)
}

// Text appends a free-text question.
func (b *Builder) Text(key, prompt string) *QuestionBuilder {
	return b.Add(key, domain.KindText, prompt)
}

// Number appends a numeric question.
func (b *Builder) Number(key, prompt string) *QuestionBuilder {
	return b.Add(key, domain.KindNumber, prompt)
}

// Build validates the questions and returns the flow.
func (b *Builder) Build() (*flow.Flow, error) {
	questions := make([]domain.Question, len(b.questions))
	for i, qb := range b.questions {
		questions[i] = qb.question
	}

	title := b.title
	if title == "" {
		title = b.id
	}
	var opts []flow.Option
	if b.intro != "" {
		opts = append(opts, flow.WithIntro(b.intro))
	}
	return flow.New(b.id, title, questions, opts...)
}

// MustBuild is like Build but panics on configuration errors.
func (b *Builder) MustBuild() *flow.Flow {
	f, err := b.Build()
	if err != nil {
		panic(err)
	}
	return f
}

// Catalog builds every flow and serves them from a memory loader.
func Catalog(builders ...*Builder) (*memory.Loader, error) {
	flows := make([]*flow.Flow, 0, len(builders))
	for _, b := range builders {
		f, err := b.Build()
		if err != nil {
			return nil, err
		}
		flows = append(flows, f)
	}

	loader, err := memory.NewLoader(flows...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}
