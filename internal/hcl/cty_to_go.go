// This file contains the logic for converting an arbitrary cty.Value into its
// native Go representation.

package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ctyToNative recursively converts a cty.Value to its most natural Go
// counterpart. Numbers become float64, collections become []any or
// map[string]any.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known at load time")
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert cty.Number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		goMap := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			keyStr := key.AsString()
			native, err := ctyToNative(elem)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", keyStr, err)
			}
			goMap[keyStr] = native
		}
		return goMap, nil

	default:
		return nil, fmt.Errorf("unsupported cty type for conversion: %s", ty.FriendlyName())
	}
}
