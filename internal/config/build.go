package config

import (
	"fmt"

	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/registry"
)

// Build resolves the model against r and returns the validated pipeline.
func (m *Model) Build(r *registry.Registry) (*pipeline.Pipeline, error) {
	if err := r.Validate(m.HandlerNames(), m.ReducerNames()); err != nil {
		return nil, err
	}
	p, err := buildSteps(r, m.Steps)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func buildSteps(r *registry.Registry, steps []*Step) (*pipeline.Pipeline, error) {
	p := new(pipeline.Pipeline)
	for _, s := range steps {
		step, err := buildStep(r, s)
		if err != nil {
			return nil, err
		}
		if err := p.Add(s.Name, step); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Source, err)
		}
	}
	return p, nil
}

func buildStep(r *registry.Registry, s *Step) (pipeline.Step, error) {
	switch s.Kind {
	case pipeline.KindSingleton:
		fn, err := r.Handler(s.Handler)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", s.Name, err)
		}
		return &pipeline.Singleton{Func: fn, Version: s.Version, Params: s.Arguments}, nil
	case pipeline.KindMapReduce:
		reduce, err := r.Reducer(s.Reduce)
		if err != nil {
			return nil, fmt.Errorf("mapreduce %q: %w", s.Name, err)
		}
		sub, err := buildSteps(r, s.Steps)
		if err != nil {
			return nil, fmt.Errorf("mapreduce %q: %w", s.Name, err)
		}
		return &pipeline.MapReduce{
			Steps:    sub,
			Map:      s.Map,
			Constant: s.Constant,
			Reduce:   reduce,
			Version:  s.Version,
		}, nil
	default:
		return nil, fmt.Errorf("%w: step %q declared as %s", pipeline.ErrUnknownStepKind, s.Name, s.Kind)
	}
}
