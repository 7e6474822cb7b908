package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/registry"
)

func testRegistry() *registry.Registry {
	r := registry.New()
	r.RegisterHandler("echo", func(_ context.Context, p pipeline.Params) (any, error) { return p["value"], nil })
	r.RegisterReducer("first", func(_ context.Context, results []any) (any, error) { return results[0], nil })
	return r
}

func sampleModel() *Model {
	return &Model{Steps: []*Step{
		{Kind: pipeline.KindSingleton, Name: "a", Version: "001", Handler: "echo", Arguments: pipeline.Params{"value": 1.0}},
		{
			Kind:     pipeline.KindMapReduce,
			Name:     "sweep",
			Version:  "001",
			Reduce:   "first",
			Map:      map[string][]any{"value": {1.0, 2.0}},
			Constant: pipeline.Params{"base": pipeline.Ref("a")},
			Steps: []*Step{
				{Kind: pipeline.KindSingleton, Name: "inner", Handler: "echo"},
			},
		},
	}}
}

func TestModel_Build(t *testing.T) {
	p, err := sampleModel().Build(testRegistry())
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())

	step, ok := p.Lookup("sweep")
	require.True(t, ok)
	m, ok := step.(*pipeline.MapReduce)
	require.True(t, ok)
	assert.Equal(t, 2, m.Iterations())
	assert.Equal(t, 1, m.Steps.Len())
	assert.Equal(t, []string{"a"}, p.Dependencies("sweep"))
}

func TestModel_BuildUnknownNames(t *testing.T) {
	model := sampleModel()
	model.Steps[0].Handler = "missing"
	model.Steps[1].Reduce = "nope"

	_, err := model.Build(testRegistry())
	require.ErrorIs(t, err, registry.ErrUnknownHandler)
	assert.Contains(t, err.Error(), "'missing'")
	assert.Contains(t, err.Error(), "'nope'")
}

func TestModel_BuildDuplicate(t *testing.T) {
	model := sampleModel()
	model.Steps[1].Name = "a"
	model.Steps[1].Source = "grid.hcl:7"

	_, err := model.Build(testRegistry())
	require.ErrorIs(t, err, pipeline.ErrDuplicateStep)
	assert.Contains(t, err.Error(), "grid.hcl:7")
}

func TestModel_Names(t *testing.T) {
	model := sampleModel()
	assert.Equal(t, []string{"echo", "echo"}, model.HandlerNames())
	assert.Equal(t, []string{"first"}, model.ReducerNames())
}
