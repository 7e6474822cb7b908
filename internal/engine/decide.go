package engine

import (
	"fmt"

	"github.com/specialistvlad/memogrid/internal/cachekey"
	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/store"
)

// decider answers whether a step must execute in the current run. It
// remembers the outer steps already selected so that references to them
// force re-execution downstream.
type decider struct {
	store  *store.Store
	marked map[string]struct{}
}

func newDecider(s *store.Store) *decider {
	return &decider{store: s, marked: make(map[string]struct{})}
}

func (d *decider) mark(name string) { d.marked[name] = struct{}{} }

func (d *decider) isMarked(name string) bool {
	_, ok := d.marked[name]
	return ok
}

// single reports whether a step must execute: no artifact exists under its
// key, or one of its references names a step marked for execution. local
// holds sub-step names of the current iteration; a reference that names a
// sub-step of the same composite is resolved there and not among outer steps.
func (d *decider) single(key string, params pipeline.Params, local map[string]bool) (bool, error) {
	ok, err := d.store.Exists(key)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	for _, ref := range params.References() {
		if executed, isLocal := local[ref]; isLocal {
			if executed {
				return true, nil
			}
			continue
		}
		if d.isMarked(ref) {
			return true, nil
		}
	}
	return false, nil
}

// subStep is a sub-step as invoked in one iteration.
type subStep struct {
	declared string
	name     string
	version  string
	step     *pipeline.Singleton
	params   pipeline.Params
	key      string
}

// subSteps expands the sub-pipeline of m for iteration i.
func subSteps(composite string, m *pipeline.MapReduce, i int) ([]subStep, error) {
	iter, err := m.IterationParams(i)
	if err != nil {
		return nil, err
	}
	entries := m.Steps.Entries()
	out := make([]subStep, 0, len(entries))
	for _, e := range entries {
		single, ok := e.Step.(*pipeline.Singleton)
		if !ok {
			return nil, fmt.Errorf("%w: sub-step %q of %q is %T", ErrUnknownStepKind, e.Name, composite, e.Step)
		}
		params, err := pipeline.MergeParams(iter, single.Params)
		if err != nil {
			return nil, err
		}
		name := pipeline.SubStepName(composite, e.Name, i)
		version := m.SubStepVersion(single)
		out = append(out, subStep{
			declared: e.Name,
			name:     name,
			version:  version,
			step:     single,
			params:   params,
			key:      cachekey.Derive(name, version, params),
		})
	}
	return out, nil
}

// composite reports whether a MapReduce step must execute: its own key
// triggers, or any sub-step of any iteration would.
func (d *decider) composite(name string, m *pipeline.MapReduce) (bool, error) {
	own, err := m.OwnParams()
	if err != nil {
		return false, err
	}
	exec, err := d.single(cachekey.Derive(name, m.Version, own), own, nil)
	if err != nil || exec {
		return exec, err
	}
	for i := 0; i < m.Iterations(); i++ {
		subs, err := subSteps(name, m, i)
		if err != nil {
			return false, err
		}
		local := make(map[string]bool, len(subs))
		for _, sub := range subs {
			exec, err := d.single(sub.key, sub.params, local)
			if err != nil {
				return false, err
			}
			if exec {
				return true, nil
			}
			local[sub.declared] = false
		}
	}
	return false, nil
}
