package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/specialistvlad/memogrid/internal/cachekey"
	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/registry"
)

// CountingModule wraps a handler and records every invocation by step name.
type CountingModule struct {
	Name string
	Fn   pipeline.StepFunc

	mu    sync.Mutex
	calls map[string][]ExecutionRecord
}

// NewCountingModule registers fn as the handler called name.
func NewCountingModule(name string, fn pipeline.StepFunc) *CountingModule {
	return &CountingModule{Name: name, Fn: fn, calls: make(map[string][]ExecutionRecord)}
}

// Register implements the registry.Module interface.
func (m *CountingModule) Register(r *registry.Registry) {
	r.RegisterHandler(m.Name, func(ctx context.Context, params pipeline.Params) (any, error) {
		start := time.Now()
		out, err := m.Fn(ctx, params)
		m.mu.Lock()
		step := params.String(cachekey.ParamStepName)
		m.calls[step] = append(m.calls[step], ExecutionRecord{Start: start, End: time.Now()})
		m.mu.Unlock()
		return out, err
	})
}

// Calls returns how often the step called step ran.
func (m *CountingModule) Calls(step string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls[step])
}

// Total returns the number of invocations across all steps.
func (m *CountingModule) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += len(c)
	}
	return n
}
