package pipeline

import "errors"

var (
	// ErrDuplicateStep is returned when a name is declared twice in one pipeline.
	ErrDuplicateStep = errors.New("duplicate step name")
	// ErrUnknownStepKind is returned for a step that is neither a Singleton
	// nor a MapReduce.
	ErrUnknownStepKind = errors.New("unknown step kind")
	// ErrUnresolvedReference is returned when a StepRef names no step declared
	// before the referencing one.
	ErrUnresolvedReference = errors.New("unresolved step reference")
	// ErrMapLengthMismatch is returned when a MapReduce has map sequences of
	// different lengths.
	ErrMapLengthMismatch = errors.New("map parameter sequences differ in length")
	// ErrInvalidStep is returned for a step missing a function, sub-steps,
	// map parameters or a reducer.
	ErrInvalidStep = errors.New("invalid step")
)
