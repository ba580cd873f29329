package mcp

import "github.com/aretw0/intake/pkg/domain"

// StepInfo is one visited step as MCP clients see it.
// Visibility rules are flattened to their text form so the output schema stays finite.
type StepInfo struct {
	Index       int             `json:"index"`
	Key         string          `json:"key"`
	Kind        domain.Kind     `json:"kind" jsonschema:"enum=single,enum=multi,enum=text,enum=number"`
	Prompt      string          `json:"prompt"`
	Options     []string        `json:"options,omitempty"`
	Optional    bool            `json:"optional,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Rule        string          `json:"rule,omitempty" jsonschema_description:"Condition under which the step is shown"`
	Value       string          `json:"value,omitempty"`
	Selected    []string        `json:"selected,omitempty"`
	Choices     []domain.Choice `json:"choices,omitempty"`
	Complete    bool            `json:"complete"`
	Current     bool            `json:"current"`
}

// SessionView mirrors domain.View with steps reduced to StepInfo.
type SessionView struct {
	SessionID  string                `json:"session_id"`
	FlowID     string                `json:"flow_id"`
	Title      string                `json:"title,omitempty"`
	Steps      []StepInfo            `json:"steps"`
	Current    int                   `json:"current"`
	Terminal   bool                  `json:"terminal"`
	Completed  bool                  `json:"completed"`
	CanAdvance bool                  `json:"can_advance"`
	CanBack    bool                  `json:"can_back"`
	Summary    []domain.SummaryEntry `json:"summary,omitempty"`
}

// NewSessionView converts an engine view.
func NewSessionView(v domain.View) SessionView {
	steps := make([]StepInfo, 0, len(v.Steps))
	for _, s := range v.Steps {
		q := s.Question
		steps = append(steps, StepInfo{
			Index:       s.Index,
			Key:         q.Key,
			Kind:        q.Kind,
			Prompt:      s.Prompt,
			Options:     q.Options,
			Optional:    q.Optional,
			Placeholder: q.Placeholder,
			Rule:        rule(q),
			Value:       s.Answer.Value,
			Selected:    s.Answer.Selected,
			Choices:     s.Choices,
			Complete:    s.Complete,
			Current:     s.Current,
		})
	}
	return SessionView{
		SessionID:  v.SessionID,
		FlowID:     v.FlowID,
		Title:      v.Title,
		Steps:      steps,
		Current:    v.Current,
		Terminal:   v.Terminal,
		Completed:  v.Completed,
		CanAdvance: v.CanAdvance,
		CanBack:    v.CanBack,
		Summary:    v.Summary,
	}
}

func rule(q domain.Question) string {
	switch {
	case q.When != nil && q.VisibleWhen != nil:
		return q.When.String() + " and custom rule"
	case q.When != nil:
		return q.When.String()
	case q.VisibleWhen != nil:
		return "custom rule"
	}
	return ""
}
