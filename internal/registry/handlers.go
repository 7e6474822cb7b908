package registry

import (
	"fmt"
	"log/slog"

	"github.com/specialistvlad/memogrid/internal/pipeline"
)

// RegisterHandler registers a Go function as a step handler.
func (r *Registry) RegisterHandler(name string, fn pipeline.StepFunc) {
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("step handler with name '%s' already registered", name))
	}
	slog.Debug("Registering step handler.", "name", name)
	r.handlers[name] = fn
}

// RegisterReducer registers a Go function as a mapreduce reducer.
func (r *Registry) RegisterReducer(name string, fn pipeline.ReduceFunc) {
	if _, exists := r.reducers[name]; exists {
		panic(fmt.Sprintf("reducer with name '%s' already registered", name))
	}
	slog.Debug("Registering reducer.", "name", name)
	r.reducers[name] = fn
}

// Handler returns the step handler registered under name.
func (r *Registry) Handler(name string) (pipeline.StepFunc, error) {
	fn, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: step handler '%s' not registered", ErrUnknownHandler, name)
	}
	return fn, nil
}

// Reducer returns the reducer registered under name.
func (r *Registry) Reducer(name string) (pipeline.ReduceFunc, error) {
	fn, ok := r.reducers[name]
	if !ok {
		return nil, fmt.Errorf("%w: reducer '%s' not registered", ErrUnknownHandler, name)
	}
	return fn, nil
}
