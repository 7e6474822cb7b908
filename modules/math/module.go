// Package math provides numeric step handlers and reducers.
package math

import (
	"context"
	"fmt"

	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunAdd returns arg1 + offset. offset defaults to 0.
func OnRunAdd(_ context.Context, params pipeline.Params) (any, error) {
	x, err := params.Float("arg1")
	if err != nil {
		return nil, err
	}
	offset, err := params.FloatOr("offset", 0)
	if err != nil {
		return nil, err
	}
	return x + offset, nil
}

// OnRunScale returns arg1 * factor. factor defaults to 1.
func OnRunScale(_ context.Context, params pipeline.Params) (any, error) {
	x, err := params.Float("arg1")
	if err != nil {
		return nil, err
	}
	factor, err := params.FloatOr("factor", 1)
	if err != nil {
		return nil, err
	}
	return x * factor, nil
}

// Sum adds the results of every iteration.
func Sum(_ context.Context, results []any) (any, error) {
	values, err := floats(results)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total, nil
}

// Mean averages the results of every iteration.
func Mean(ctx context.Context, results []any) (any, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("mean of no results")
	}
	total, err := Sum(ctx, results)
	if err != nil {
		return nil, err
	}
	return total.(float64) / float64(len(results)), nil
}

func floats(results []any) ([]float64, error) {
	params := make(pipeline.Params, 1)
	out := make([]float64, len(results))
	for i, r := range results {
		params["result"] = r
		f, err := params.Float("result")
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// Register registers the handlers and reducers with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler("add", OnRunAdd)
	r.RegisterHandler("scale", OnRunScale)
	r.RegisterReducer("sum", Sum)
	r.RegisterReducer("mean", Mean)
}
