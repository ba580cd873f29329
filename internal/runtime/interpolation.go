package runtime

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
)

// Interpolator renders a prompt template against answer data.
type Interpolator func(ctx context.Context, templateStr string, data any) (string, error)

// DefaultInterpolator uses text/template. Multi-select answers are exposed as
// []string, so templates may range over them or use the join helper.
func DefaultInterpolator(ctx context.Context, templateStr string, data any) (string, error) {
	if !strings.Contains(templateStr, "{{") {
		return templateStr, nil
	}
	tmpl, err := template.New("prompt").Funcs(template.FuncMap{
		"join": strings.Join,
	}).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("invalid prompt template: %w", err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("prompt interpolation failed: %w", err)
	}
	return sb.String(), nil
}

// templateData exposes every declared key, so unanswered ones render empty
// instead of "<no value>".
func templateData(f *flow.Flow, answers domain.Answers) map[string]any {
	data := make(map[string]any, f.Len())
	for _, q := range f.Questions() {
		if q.Kind == domain.KindMulti {
			data[q.Key] = []string{}
		} else {
			data[q.Key] = ""
		}
	}
	for k, v := range answers.Data() {
		data[k] = v
	}
	return data
}

// renderPrompt produces the text of q for the given answers.
// A failing template falls back to the raw prompt so a typo never blocks a session.
func (e *Engine) renderPrompt(ctx context.Context, f *flow.Flow, q domain.Question, answers domain.Answers) string {
	if q.PromptFunc != nil {
		return q.PromptFunc(answers.Clone())
	}
	text, err := e.interpolator(ctx, q.Prompt, templateData(f, answers))
	if err != nil {
		e.logger.Warn("failed to render prompt", "flow_id", f.ID(), "key", q.Key, "err", err)
		return q.Prompt
	}
	return text
}
