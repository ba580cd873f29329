package runtime

import (
	"context"

	"github.com/aretw0/intake/pkg/domain"
)

// View projects the state into a render-ready transcript of the visited steps.
// The projection is recomputed on each call and shares no memory with state.
func (e *Engine) View(ctx context.Context, state *domain.State) (domain.View, error) {
	f, err := e.load(state)
	if err != nil {
		return domain.View{}, err
	}

	view := domain.View{
		SessionID: state.SessionID,
		FlowID:    f.ID(),
		Title:     f.Title(),
		Current:   state.Current,
		Terminal:  f.IsTerminal(state.Current),
		Completed: state.Completed(),
		CanBack:   !state.Completed() && len(state.Visited) > 1,
	}

	path := PathAnswers(f, state)
	for _, idx := range state.Visited {
		q, ok := f.Question(idx)
		if !ok {
			continue
		}
		ans, _ := state.Answers.Get(q.Key)
		sv := domain.StepView{
			Index:    idx,
			Question: q,
			Prompt:   e.renderPrompt(ctx, f, q, path),
			Answer:   ans.Clone(),
			Complete: Satisfied(q, state.Answers),
			Current:  idx == state.Current,
		}
		if q.Kind.IsSelect() {
			sv.Choices = make([]domain.Choice, len(q.Options))
			for i, opt := range q.Options {
				sv.Choices[i] = domain.Choice{Label: opt, Selected: ans.Has(opt)}
			}
		}
		if sv.Current {
			view.CanAdvance = !state.Completed() && sv.Complete
		}
		view.Steps = append(view.Steps, sv)
	}

	if view.Terminal {
		view.Summary = Project(f, state, e.delimiter)
	}
	return view, nil
}
