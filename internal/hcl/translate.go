package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/specialistvlad/memogrid/internal/config"
	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/schema"
)

// refRoot is the traversal root that marks a step reference.
const refRoot = "step"

// translateStep converts the HCL-specific step schema into the agnostic model.
func translateStep(s *schema.Step, at hcl.Range) (*config.Step, error) {
	args, err := evalParams(s.Arguments)
	if err != nil {
		return nil, fmt.Errorf("step %q arguments: %w", s.Name, err)
	}
	return &config.Step{
		Kind:      pipeline.KindSingleton,
		Name:      s.Name,
		Version:   s.Version,
		Source:    at.String(),
		Handler:   s.Handler,
		Arguments: args,
	}, nil
}

// translateMapReduce converts the HCL-specific mapreduce schema into the
// agnostic model.
func translateMapReduce(m *schema.MapReduce, at hcl.Range) (*config.Step, error) {
	constant, err := evalParams(m.Constant)
	if err != nil {
		return nil, fmt.Errorf("mapreduce %q constant: %w", m.Name, err)
	}
	seqs, err := evalSequences(m.Map)
	if err != nil {
		return nil, fmt.Errorf("mapreduce %q map: %w", m.Name, err)
	}

	step := &config.Step{
		Kind:     pipeline.KindMapReduce,
		Name:     m.Name,
		Version:  m.Version,
		Source:   at.String(),
		Reduce:   m.Reduce,
		Map:      seqs,
		Constant: constant,
	}
	for _, s := range m.Steps {
		sub, err := translateStep(s, at)
		if err != nil {
			return nil, fmt.Errorf("mapreduce %q: %w", m.Name, err)
		}
		sub.Source = fmt.Sprintf("%s (sub-step %q)", at.String(), s.Name)
		step.Steps = append(step.Steps, sub)
	}
	return step, nil
}

// evalParams evaluates every attribute of b into a Go value.
func evalParams(b *schema.Body) (pipeline.Params, error) {
	params := pipeline.Params{}
	if b == nil || b.Body == nil {
		return params, nil
	}
	attrs, diags := b.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	for name, attr := range attrs {
		v, err := evalExpr(attr.Expr)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		params[name] = v
	}
	return params, nil
}

// evalSequences evaluates the attributes of a 'map' block, each of which
// must be a list or tuple.
func evalSequences(b *schema.Body) (map[string][]any, error) {
	params, err := evalParams(b)
	if err != nil {
		return nil, err
	}
	seqs := make(map[string][]any, len(params))
	for name, v := range params {
		seq, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("attribute %q must be a list, got %T", name, v)
		}
		seqs[name] = seq
	}
	return seqs, nil
}

// evalExpr turns step.NAME into a pipeline.StepRef and evaluates anything
// else as a constant.
func evalExpr(expr hcl.Expression) (any, error) {
	if trav, ok := expr.(*hclsyntax.ScopeTraversalExpr); ok && trav.Traversal.RootName() == refRoot {
		return stepRef(trav.Traversal)
	}
	val, diags := expr.Value(evalContext)
	if diags.HasErrors() {
		return nil, diags
	}
	return ctyToNative(val)
}

func stepRef(t hcl.Traversal) (pipeline.StepRef, error) {
	if len(t) != 2 {
		return pipeline.StepRef{}, fmt.Errorf("step reference must have the form step.NAME")
	}
	attr, ok := t[1].(hcl.TraverseAttr)
	if !ok {
		return pipeline.StepRef{}, fmt.Errorf("step reference must have the form step.NAME")
	}
	return pipeline.Ref(attr.Name), nil
}
