package engine

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/memogrid/internal/pipeline"
)

var (
	// ErrUnknownStepKind is returned when a declared step is neither a
	// Singleton nor a MapReduce. Planning stops before anything executes.
	ErrUnknownStepKind = pipeline.ErrUnknownStepKind
	// ErrMissingRequiredParameter is returned when a step is invoked without
	// a step name or version.
	ErrMissingRequiredParameter = errors.New("missing required parameter")
)

// StepError reports the failure of a declared step.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
