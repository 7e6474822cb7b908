package testutil

import (
	"context"

	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/registry"
)

// NoOpModule registers a "noop" handler that returns no result. It is
// useful for tests that only need a pipeline to load.
type NoOpModule struct{}

// Register registers the "noop" handler.
func (m *NoOpModule) Register(r *registry.Registry) {
	r.RegisterHandler("noop", func(context.Context, pipeline.Params) (any, error) {
		return nil, nil
	})
}
