package config

import "github.com/specialistvlad/memogrid/internal/pipeline"

// Model is the unified, format-agnostic representation of a pipeline
// declaration.
type Model struct {
	Steps []*Step
}

// Step is the format-agnostic representation of a declared step. Kind
// selects which of the remaining fields apply.
type Step struct {
	Kind    pipeline.Kind
	Name    string
	Version string
	// Source describes where the step was declared, for error messages.
	Source string

	// Singleton fields.
	Handler   string
	Arguments pipeline.Params

	// MapReduce fields.
	Reduce   string
	Map      map[string][]any
	Constant pipeline.Params
	Steps    []*Step
}

// HandlerNames returns every handler name the model refers to.
func (m *Model) HandlerNames() []string {
	var names []string
	var walk func(steps []*Step)
	walk = func(steps []*Step) {
		for _, s := range steps {
			if s.Handler != "" {
				names = append(names, s.Handler)
			}
			walk(s.Steps)
		}
	}
	walk(m.Steps)
	return names
}

// ReducerNames returns every reducer name the model refers to.
func (m *Model) ReducerNames() []string {
	var names []string
	for _, s := range m.Steps {
		if s.Reduce != "" {
			names = append(names, s.Reduce)
		}
	}
	return names
}
