package domain

import "time"

// Choice is one option chip, flagged when it is part of the answer.
type Choice struct {
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// StepView pairs a visited step with its question and current answer.
type StepView struct {
	Index    int      `json:"index"`
	Question Question `json:"question"`
	// Prompt is the question text after interpolation.
	Prompt  string   `json:"prompt"`
	Answer  Answer   `json:"answer"`
	Choices []Choice `json:"choices,omitempty"`
	// Complete reports whether the answer satisfies the continuation gate.
	Complete bool `json:"complete"`
	Current  bool `json:"current"`
}

// View is the render-ready projection of a session, recomputed on each read.
type View struct {
	SessionID string     `json:"session_id"`
	FlowID    string     `json:"flow_id"`
	Title     string     `json:"title,omitempty"`
	Steps     []StepView `json:"steps"`
	Current   int        `json:"current"`

	// Terminal reports whether the session sits on the summary step.
	Terminal   bool `json:"terminal"`
	Completed  bool `json:"completed"`
	CanAdvance bool `json:"can_advance"`
	CanBack    bool `json:"can_back"`

	// Summary is filled when Terminal is true.
	Summary []SummaryEntry `json:"summary,omitempty"`
}

// SummaryEntry is one human-readable line of the confirmation step.
type SummaryEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Completion is handed to completion sinks once the summary is confirmed.
type Completion struct {
	SessionID   string         `json:"session_id"`
	FlowID      string         `json:"flow_id"`
	Answers     Answers        `json:"answers"`
	Summary     []SummaryEntry `json:"summary"`
	CompletedAt time.Time      `json:"completed_at"`
}
