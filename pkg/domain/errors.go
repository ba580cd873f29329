package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrFlowNotFound is returned when a loader has no flow with the requested ID.
var ErrFlowNotFound = errors.New("flow not found")

// ErrDeliveryFailed is returned by Complete when a completion sink fails.
// The session is left unsealed.
var ErrDeliveryFailed = errors.New("failed to deliver completion")

// Rejections of wizard operations. They always arrive wrapped in a *ValidationError.
var (
	ErrWrongStep      = errors.New("answer submitted for a step other than the current one")
	ErrStepIncomplete = errors.New("step incomplete")
	ErrInvalidValue   = errors.New("value does not match the question")
	ErrAtSummary      = errors.New("already at the summary step")
	ErrAtFirstStep    = errors.New("no previous step")
	ErrNotAtSummary   = errors.New("summary step not reached")
	ErrCompleted      = errors.New("session already completed")
)

// ValidationError reports a rejected operation. The state it was applied to is unchanged.
type ValidationError struct {
	Op   string // "submit", "advance", "back", "complete"
	Step int
	Key  string
	Err  error
	// Detail carries extra context, e.g. the offending value.
	Detail string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s rejected at step %d", e.Op, e.Step)
	if e.Key != "" {
		msg += fmt.Sprintf(" (%s)", e.Key)
	}
	msg += ": " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a rejected wizard operation.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ConfigurationError reports an invalid flow definition. It is fatal at construction.
type ConfigurationError struct {
	FlowID string
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("flow %q: %s", e.FlowID, e.Reason)
	}
	return fmt.Sprintf("flow %q, question %q: %s", e.FlowID, e.Key, e.Reason)
}

// AggregateError collects several configuration problems.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d configuration errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}
