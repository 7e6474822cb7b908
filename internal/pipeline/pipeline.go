package pipeline

import (
	"fmt"
	"sort"
)

// Entry is a named step in declaration order.
type Entry struct {
	Name string
	Step Step
}

// Pipeline is an ordered collection of uniquely named steps.
type Pipeline struct {
	entries []Entry
	index   map[string]int
	deps    map[string][]string
}

// New returns a pipeline holding entries in the given order.
func New(entries ...Entry) (*Pipeline, error) {
	p := &Pipeline{index: make(map[string]int)}
	for _, e := range entries {
		if err := p.Add(e.Name, e.Step); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Add appends a step. Names must be non-empty and unique.
func (p *Pipeline) Add(name string, step Step) error {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if name == "" {
		return fmt.Errorf("%w: step name must not be empty", ErrInvalidStep)
	}
	if _, exists := p.index[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateStep, name)
	}
	if step == nil {
		return fmt.Errorf("%w: step %q is nil", ErrUnknownStepKind, name)
	}
	p.index[name] = len(p.entries)
	p.entries = append(p.entries, Entry{Name: name, Step: step})
	p.deps = nil
	return nil
}

// MustAdd is Add for static declarations; it panics on error.
func (p *Pipeline) MustAdd(name string, step Step) *Pipeline {
	if err := p.Add(name, step); err != nil {
		panic(err)
	}
	return p
}

// Entries returns the steps in declaration order.
func (p *Pipeline) Entries() []Entry {
	if p == nil {
		return nil
	}
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Len returns the number of declared steps.
func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Lookup returns the step declared under name.
func (p *Pipeline) Lookup(name string) (Step, bool) {
	if p == nil {
		return nil, false
	}
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.entries[i].Step, true
}

// Dependencies returns the steps name references directly, as resolved by the
// last successful Validate. For a MapReduce this covers outer steps
// referenced by any of its sub-steps.
func (p *Pipeline) Dependencies(name string) []string {
	if p == nil || p.deps == nil {
		return nil
	}
	return append([]string(nil), p.deps[name]...)
}

// Validate checks every step and resolves references into dependency edges.
// A reference must name a step declared earlier; inside a MapReduce it may
// also name an earlier sub-step of the same composite.
func (p *Pipeline) Validate() error {
	deps := make(map[string][]string, len(p.entries))
	declared := make(map[string]struct{}, len(p.entries))

	for _, e := range p.entries {
		switch step := e.Step.(type) {
		case *Singleton:
			if err := validateSingleton(e.Name, step); err != nil {
				return err
			}
			refs, err := resolve(e.Name, step.Params, declared, nil)
			if err != nil {
				return err
			}
			deps[e.Name] = refs
		case *MapReduce:
			refs, err := validateMapReduce(e.Name, step, declared)
			if err != nil {
				return err
			}
			deps[e.Name] = refs
		default:
			return fmt.Errorf("%w: step %q is %T", ErrUnknownStepKind, e.Name, e.Step)
		}
		declared[e.Name] = struct{}{}
	}

	p.deps = deps
	return nil
}

func validateSingleton(name string, s *Singleton) error {
	if s.Func == nil {
		return fmt.Errorf("%w: step %q has no function", ErrInvalidStep, name)
	}
	return nil
}

func validateMapReduce(name string, m *MapReduce, outer map[string]struct{}) ([]string, error) {
	if m.Steps.Len() == 0 {
		return nil, fmt.Errorf("%w: mapreduce step %q has no sub-steps", ErrInvalidStep, name)
	}
	if m.Reduce == nil {
		return nil, fmt.Errorf("%w: mapreduce step %q has no reduce function", ErrInvalidStep, name)
	}
	if len(m.Map) == 0 {
		return nil, fmt.Errorf("%w: mapreduce step %q has no map parameters", ErrInvalidStep, name)
	}

	keys := make([]string, 0, len(m.Map))
	for k := range m.Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	n := len(m.Map[keys[0]])
	for _, k := range keys[1:] {
		if len(m.Map[k]) != n {
			return nil, fmt.Errorf("%w: mapreduce step %q: %q has %d values, %q has %d",
				ErrMapLengthMismatch, name, keys[0], n, k, len(m.Map[k]))
		}
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: mapreduce step %q has empty map parameters", ErrInvalidStep, name)
	}

	outerRefs, err := resolve(name, m.Constant, outer, nil)
	if err != nil {
		return nil, err
	}
	seqRefs, err := resolve(name, sequenceElements(m.Map), outer, nil)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, r := range append(outerRefs, seqRefs...) {
		seen[r] = struct{}{}
	}

	subDeclared := make(map[string]struct{})
	subDeps := make(map[string][]string)
	for _, sub := range m.Steps.entries {
		single, ok := sub.Step.(*Singleton)
		if !ok {
			return nil, fmt.Errorf("%w: sub-step %q of %q must be a singleton, got %T", ErrUnknownStepKind, sub.Name, name, sub.Step)
		}
		if err := validateSingleton(name+"."+sub.Name, single); err != nil {
			return nil, err
		}
		refs, err := resolve(name+"."+sub.Name, single.Params, outer, subDeclared)
		if err != nil {
			return nil, err
		}
		subDeps[sub.Name] = refs
		for _, r := range refs {
			if _, local := subDeclared[r]; local {
				continue
			}
			seen[r] = struct{}{}
		}
		subDeclared[sub.Name] = struct{}{}
	}
	m.Steps.deps = subDeps

	out := make([]string, 0, len(seen))
	for r := range seen {
		out = append(out, r)
	}
	sort.Strings(out)
	return out, nil
}

// sequenceElements flattens map sequences into one parameter per element so
// references inside them can be resolved like any other parameter.
func sequenceElements(seqs map[string][]any) Params {
	out := make(Params)
	for k, seq := range seqs {
		for i, v := range seq {
			out[fmt.Sprintf("%s[%d]", k, i)] = v
		}
	}
	return out
}

func resolve(owner string, params Params, outer, local map[string]struct{}) ([]string, error) {
	refs := params.References()
	for _, r := range refs {
		if _, ok := local[r]; ok {
			continue
		}
		if _, ok := outer[r]; ok {
			continue
		}
		return nil, fmt.Errorf("%w: %q references %q, which is not declared before it", ErrUnresolvedReference, owner, r)
	}
	return refs, nil
}
