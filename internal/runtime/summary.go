package runtime

import (
	"context"
	"strings"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/flow"
)

// Summary projects the visited answers as labelled lines. It works at any
// step, so views can show a live preview.
func (e *Engine) Summary(ctx context.Context, state *domain.State) ([]domain.SummaryEntry, error) {
	f, err := e.load(state)
	if err != nil {
		return nil, err
	}
	return Project(f, state, e.delimiter), nil
}

// PathAnswers returns the answers of the questions on the visited path.
// Answers kept for steps the current path no longer reaches are left out.
func PathAnswers(f *flow.Flow, state *domain.State) domain.Answers {
	out := make(domain.Answers, len(state.Visited))
	for _, idx := range state.Visited {
		q, ok := f.Question(idx)
		if !ok {
			continue
		}
		if ans, ok := state.Answers.Get(q.Key); ok {
			out[q.Key] = ans.Clone()
		}
	}
	return out
}

// Project builds one entry per distinct visited question, in visit order.
// Skipped or never reached questions are omitted. Multi-select values follow
// the option declaration order, joined by delim.
func Project(f *flow.Flow, state *domain.State, delim string) []domain.SummaryEntry {
	entries := make([]domain.SummaryEntry, 0, len(state.Visited))
	seen := make(map[int]bool, len(state.Visited))
	for _, idx := range state.Visited {
		if seen[idx] {
			continue
		}
		seen[idx] = true

		q, ok := f.Question(idx)
		if !ok {
			continue
		}
		entries = append(entries, domain.SummaryEntry{
			Key:   q.Key,
			Label: q.DisplayLabel(),
			Value: displayValue(q, state.Answers, delim),
		})
	}
	return entries
}

func displayValue(q domain.Question, answers domain.Answers, delim string) string {
	ans, ok := answers.Get(q.Key)
	if !ok {
		return ""
	}
	if q.Kind != domain.KindMulti {
		return ans.Value
	}
	ordered := make([]string, 0, len(ans.Selected))
	for _, opt := range q.Options {
		if ans.Has(opt) {
			ordered = append(ordered, opt)
		}
	}
	return strings.Join(ordered, delim)
}
