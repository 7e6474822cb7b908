package pipeline

import (
	"context"
	"fmt"
)

// StepFunc is a step's computation. params always carries `step_name` and
// `version` in addition to the declared parameters, with every StepRef
// replaced by the referenced step's loaded result. A nil result means there
// is nothing to cache.
type StepFunc func(ctx context.Context, params Params) (any, error)

// ReduceFunc combines the final results of a MapReduce step's iterations,
// given in iteration order.
type ReduceFunc func(ctx context.Context, results []any) (any, error)

// Kind identifies the shape of a step.
type Kind int

const (
	KindSingleton Kind = iota + 1
	KindMapReduce
)

func (k Kind) String() string {
	switch k {
	case KindSingleton:
		return "singleton"
	case KindMapReduce:
		return "mapreduce"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Step is one declared unit of cacheable work.
type Step interface {
	Kind() Kind
}

// Singleton is one function with one fixed parameter mapping.
type Singleton struct {
	Func    StepFunc
	Version string
	Params  Params
}

// Kind implements Step.
func (*Singleton) Kind() Kind { return KindSingleton }

// MapReduce runs Steps once per iteration and reduces the final result of
// every iteration into one.
//
// Iteration i receives Map[k][i] for every k, merged with Constant and then
// with the sub-step's own parameters. All Map sequences must have the same
// length.
type MapReduce struct {
	Steps    *Pipeline
	Map      map[string][]any
	Constant Params
	Reduce   ReduceFunc
	Version  string
}

// Kind implements Step.
func (*MapReduce) Kind() Kind { return KindMapReduce }

// Iterations returns the iteration count, the shared length of the Map
// sequences.
func (m *MapReduce) Iterations() int {
	for _, seq := range m.Map {
		return len(seq)
	}
	return 0
}

// IterationParams returns the parameters shared by every sub-step in
// iteration i.
func (m *MapReduce) IterationParams(i int) (Params, error) {
	iter := make(Params, len(m.Map))
	for k, seq := range m.Map {
		if i >= len(seq) {
			return nil, fmt.Errorf("%w: %q has %d values, iteration %d requested", ErrMapLengthMismatch, k, len(seq), i)
		}
		iter[k] = seq[i]
	}
	return MergeParams(iter, m.Constant)
}

// OwnParams returns the parameters that identify the composite step itself:
// the full map sequences merged with the constant parameters.
func (m *MapReduce) OwnParams() (Params, error) {
	all := make(Params, len(m.Map))
	for k, seq := range m.Map {
		values := make([]any, len(seq))
		copy(values, seq)
		all[k] = values
	}
	return MergeParams(all, m.Constant)
}

// SubStepVersion returns the version a sub-step runs under: its own when
// set, the composite's otherwise.
func (m *MapReduce) SubStepVersion(sub *Singleton) string {
	if sub.Version != "" {
		return sub.Version
	}
	return m.Version
}

// SubStepName returns the name a sub-step is invoked and cached under in
// iteration i.
func SubStepName(composite, sub string, i int) string {
	return fmt.Sprintf("%s_%s_%d", composite, sub, i)
}
