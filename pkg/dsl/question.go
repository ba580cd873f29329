package dsl

import "github.com/aretw0/intake/pkg/domain"

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	question domain.Question
	builder  *Builder
}

// Options sets the choices of a select question.
func (q *QuestionBuilder) Options(options ...string) *QuestionBuilder {
	q.question.Options = append([]string(nil), options...)
	return q
}

// Label sets the caption used on the summary step.
func (q *QuestionBuilder) Label(label string) *QuestionBuilder {
	q.question.Label = label
	return q
}

// Placeholder sets the input hint of free-text questions.
func (q *QuestionBuilder) Placeholder(text string) *QuestionBuilder {
	q.question.Placeholder = text
	return q
}

// Optional lets the user continue without answering.
func (q *QuestionBuilder) Optional() *QuestionBuilder {
	q.question.Optional = true
	return q
}

// When shows the question only when cond matches the answers given so far.
// Successive calls are combined with AND.
func (q *QuestionBuilder) When(cond *domain.Condition) *QuestionBuilder {
	if q.question.When == nil {
		q.question.When = cond
		return q
	}
	q.question.When = &domain.Condition{All: []domain.Condition{*q.question.When, *cond}}
	return q
}

// WhenEquals is sugar for When(domain.Equals(key, value)).
func (q *QuestionBuilder) WhenEquals(key, value string) *QuestionBuilder {
	return q.When(domain.Equals(key, value))
}

// WhenIn is sugar for When(domain.In(key, values...)).
func (q *QuestionBuilder) WhenIn(key string, values ...string) *QuestionBuilder {
	return q.When(domain.In(key, values...))
}

// WhenIncludes is sugar for When(domain.Includes(key, value)).
func (q *QuestionBuilder) WhenIncludes(key, value string) *QuestionBuilder {
	return q.When(domain.Includes(key, value))
}

// VisibleWhen attaches an in-process predicate. It is not serialisable.
func (q *QuestionBuilder) VisibleWhen(pred domain.Predicate) *QuestionBuilder {
	q.question.VisibleWhen = pred
	return q
}

// PromptFunc computes the prompt from the answers. It is not serialisable.
func (q *QuestionBuilder) PromptFunc(fn domain.PromptFunc) *QuestionBuilder {
	q.question.PromptFunc = fn
	return q
}

// Then returns to the flow builder, for chaining several questions in one expression.
func (q *QuestionBuilder) Then() *Builder {
	return q.builder
}
