package domain

import "time"

// ExecutionStatus defines the lifecycle phase of a session.
type ExecutionStatus string

const (
	StatusActive    ExecutionStatus = "active"    // Collecting answers
	StatusCompleted ExecutionStatus = "completed" // Summary confirmed, sealed
)

// State represents the current snapshot of a wizard session.
type State struct {
	SessionID string `json:"session_id"`
	FlowID    string `json:"flow_id"`

	// Current is the index of the step being shown.
	// It equals len(flow questions) when the session sits on the summary step.
	Current int `json:"current"`

	// Visited is the path actually taken, skipping hidden steps.
	// It is strictly increasing and its last element is always Current.
	Visited []int `json:"visited"`

	Answers Answers         `json:"answers"`
	Status  ExecutionStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a clean state positioned at the given first step.
func NewState(sessionID, flowID string, first int) *State {
	now := time.Now().UTC()
	return &State{
		SessionID: sessionID,
		FlowID:    flowID,
		Current:   first,
		Visited:   []int{first},
		Answers:   make(Answers),
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Snapshot returns a deep copy of the state, safe to mutate.
func (s *State) Snapshot() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Visited = append([]int(nil), s.Visited...)
	if s.Answers != nil {
		next.Answers = s.Answers.Clone()
	} else {
		next.Answers = make(Answers)
	}
	return &next
}

// Completed reports whether the session was sealed by Complete.
func (s *State) Completed() bool {
	return s.Status == StatusCompleted
}

// HasVisited reports whether step is part of the visited path.
func (s *State) HasVisited(step int) bool {
	for _, v := range s.Visited {
		if v == step {
			return true
		}
	}
	return false
}
