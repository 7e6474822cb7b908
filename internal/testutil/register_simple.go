package testutil

import (
	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/registry"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers a single handler or reducer.
type SimpleModule struct {
	HandlerName string
	Handler     pipeline.StepFunc

	ReducerName string
	Reducer     pipeline.ReduceFunc
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.HandlerName != "" && m.Handler != nil {
		r.RegisterHandler(m.HandlerName, m.Handler)
	}
	if m.ReducerName != "" && m.Reducer != nil {
		r.RegisterReducer(m.ReducerName, m.Reducer)
	}
}
