package registry

import (
	"errors"
	"sort"

	"github.com/specialistvlad/memogrid/internal/pipeline"
)

// ErrUnknownHandler is returned when a pipeline names a handler or reducer
// that no module registered.
var ErrUnknownHandler = errors.New("unknown handler")

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the step handlers and reducers of a single application
// instance.
type Registry struct {
	handlers map[string]pipeline.StepFunc
	reducers map[string]pipeline.ReduceFunc
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		handlers: make(map[string]pipeline.StepFunc),
		reducers: make(map[string]pipeline.ReduceFunc),
	}
}

// Handlers returns the registered handler names, sorted.
func (r *Registry) Handlers() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reducers returns the registered reducer names, sorted.
func (r *Registry) Reducers() []string {
	names := make([]string, 0, len(r.reducers))
	for name := range r.reducers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
