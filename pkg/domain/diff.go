package domain

// StateDiff represents the changes between two states.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	Current *int             `json:"current,omitempty"`
	Status  *ExecutionStatus `json:"status,omitempty"`

	// Answers contains only changed, added or deleted keys.
	// For deletions, the key is present with a null value.
	// Clients should merge these updates into their local state.
	Answers map[string]*Answer `json:"answers,omitempty"`

	// Visited carries the whole path whenever it changed. Back shortens it,
	// so an append-only delta would not be enough.
	Visited []int `json:"visited,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.Current != newState.Current {
		current := newState.Current
		diff.Current = &current
	}
	if oldState == nil || oldState.Status != newState.Status {
		status := newState.Status
		diff.Status = &status
	}

	diff.Answers = diffAnswers(oldState, newState)

	if oldState == nil || !equalPath(oldState.Visited, newState.Visited) {
		diff.Visited = append([]int{}, newState.Visited...)
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffAnswers(old *State, new *State) map[string]*Answer {
	delta := make(map[string]*Answer)

	if old == nil {
		for k, v := range new.Answers {
			ans := v.Clone()
			delta[k] = &ans
		}
		if len(delta) == 0 {
			return nil
		}
		return delta
	}

	for k, newVal := range new.Answers {
		oldVal, exists := old.Answers[k]
		if !exists || !oldVal.Equal(newVal) {
			ans := newVal.Clone()
			delta[k] = &ans
		}
	}

	for k := range old.Answers {
		if _, exists := new.Answers[k]; !exists {
			delta[k] = nil
		}
	}

	// Return nil if delta is empty so omitempty can remove the key
	if len(delta) == 0 {
		return nil
	}
	return delta
}

func equalPath(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Current == nil &&
		d.Status == nil &&
		len(d.Answers) == 0 &&
		d.Visited == nil
}
