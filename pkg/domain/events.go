package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStepEnter EventType = "step_enter"
	EventStepLeave EventType = "step_leave"
	EventAnswer    EventType = "answer"
	EventRejected  EventType = "rejected"
	EventComplete  EventType = "complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	FlowID    string    `json:"flow_id"`
}

// StepEvent represents entry into or exit from a step.
type StepEvent struct {
	EventBase
	Step     int    `json:"step"`
	Key      string `json:"key,omitempty"` // empty for the summary step
	Terminal bool   `json:"terminal,omitempty"`
}

// AnswerEvent represents an accepted or rejected operation on a step.
type AnswerEvent struct {
	EventBase
	Op    string `json:"op"`
	Step  int    `json:"step"`
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
	Err   error  `json:"-"`
}

// CompletionEvent is emitted once a session is sealed.
type CompletionEvent struct {
	EventBase
	Answered int           `json:"answered"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStepEnter func(context.Context, *StepEvent)
	OnStepLeave func(context.Context, *StepEvent)
	OnAnswer    func(context.Context, *AnswerEvent)
	OnRejected  func(context.Context, *AnswerEvent)
	OnComplete  func(context.Context, *CompletionEvent)
}

// Merge combines hooks so that both sets are invoked, h first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStepEnter: chain(h.OnStepEnter, other.OnStepEnter),
		OnStepLeave: chain(h.OnStepLeave, other.OnStepLeave),
		OnAnswer:    chain(h.OnAnswer, other.OnAnswer),
		OnRejected:  chain(h.OnRejected, other.OnRejected),
		OnComplete:  chain(h.OnComplete, other.OnComplete),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
