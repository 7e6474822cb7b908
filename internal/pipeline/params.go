package pipeline

import (
	"fmt"
	"math/big"
	"sort"

	"dario.cat/mergo"
	"github.com/zclconf/go-cty/cty"
)

// Params is the parameter mapping delivered to a step function.
type Params map[string]any

// StepRef is a parameter value that stands for the result of another step.
// The engine substitutes the loaded result before invoking the step; cache
// keys and metadata see the referenced name.
type StepRef struct {
	Name string
}

// Ref returns a reference to the step called name.
func Ref(name string) StepRef {
	return StepRef{Name: name}
}

// String implements fmt.Stringer.
func (r StepRef) String() string { return r.Name }

// MarshalJSON renders the reference as the referenced step name.
func (r StepRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Name)
}

// References returns the names referenced by top-level parameter values,
// sorted and without duplicates.
func (p Params) References() []string {
	seen := make(map[string]struct{})
	var refs []string
	for _, v := range p {
		ref, ok := v.(StepRef)
		if !ok {
			continue
		}
		if _, dup := seen[ref.Name]; dup {
			continue
		}
		seen[ref.Name] = struct{}{}
		refs = append(refs, ref.Name)
	}
	sort.Strings(refs)
	return refs
}

// Clone returns a deep copy of p. Nested maps and slices are copied so the
// result can be merged or mutated without touching the declaration.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case Params:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return v
	}
}

// MergeParams combines layers left to right; a key in a later layer replaces
// the value of the same key in an earlier one as a whole, nested maps
// included. The layers themselves are not modified.
func MergeParams(layers ...Params) (Params, error) {
	out := Params{}
	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		for k := range layer {
			delete(out, k)
		}
		if err := mergo.Merge(&out, layer.Clone(), mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merging parameters: %w", err)
		}
	}
	return out, nil
}

// String returns the string parameter key, or "" when absent or not a string.
func (p Params) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Float returns the numeric parameter key as a float64. It accepts Go number
// types as well as cty numbers produced by the cty codec.
func (p Params) Float(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("parameter %q is missing", key)
	}
	return toFloat(key, v)
}

// FloatOr is Float with a fallback for an absent parameter.
func (p Params) FloatOr(key string, fallback float64) (float64, error) {
	if _, ok := p[key]; !ok {
		return fallback, nil
	}
	return p.Float(key)
}

func toFloat(key string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case *big.Float:
		f, _ := n.Float64()
		return f, nil
	case cty.Value:
		if n.IsNull() || !n.IsKnown() || n.Type() != cty.Number {
			return 0, fmt.Errorf("parameter %q must be a number, got %s", key, n.Type().FriendlyName())
		}
		f, _ := n.AsBigFloat().Float64()
		return f, nil
	default:
		return 0, fmt.Errorf("parameter %q must be a number, got %T", key, v)
	}
}
