package dynamo

import (
	"errors"
	"fmt"

	"github.com/san-kum/subsim/internal/body"
)

var (
	// ErrInvalidConfig indicates a non-positive step or duration.
	ErrInvalidConfig = errors.New("dynamo: invalid config")

	// ErrNoMembers is returned by an empty ensemble.
	ErrNoMembers = errors.New("dynamo: ensemble has no members")
)

// SimulationError wraps a tick failure with the step it happened on.
type SimulationError struct {
	Step    int
	Time    float64
	Pose    body.Pose
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
