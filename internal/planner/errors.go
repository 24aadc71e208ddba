package planner

import (
	"errors"
	"fmt"
)

var (
	// ErrUnschedulable is returned when a node has neither a candidate end
	// date nor a deadline to anchor it.
	ErrUnschedulable = errors.New("unschedulable")
	// ErrInvalidProgress is returned for progress outside [0, 1].
	ErrInvalidProgress = errors.New("progress must be between 0 and 1")
	// ErrInvalidDuration is returned for negative or non-finite durations.
	ErrInvalidDuration = errors.New("duration must be a finite non-negative number")
	// ErrUnknownKind is returned when a document names no known variant.
	ErrUnknownKind = errors.New("unknown activity type")
)

// PlannerError reports the node that could not be anchored.
type PlannerError struct {
	Node string
}

func (e *PlannerError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("%s: no end date and no deadline", ErrUnschedulable)
	}
	return fmt.Sprintf("%s: %q has no end date and no deadline", ErrUnschedulable, e.Node)
}

// Unwrap returns ErrUnschedulable.
func (e *PlannerError) Unwrap() error {
	return ErrUnschedulable
}
