package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// evalContext offers a few pure functions for building parameter values,
// e.g. map { arg1 = range(0, 10) }. No variables are defined.
var evalContext = &hcl.EvalContext{
	Functions: map[string]function.Function{
		"concat": stdlib.ConcatFunc,
		"format": stdlib.FormatFunc,
		"length": stdlib.LengthFunc,
		"lower":  stdlib.LowerFunc,
		"max":    stdlib.MaxFunc,
		"min":    stdlib.MinFunc,
		"range":  stdlib.RangeFunc,
		"upper":  stdlib.UpperFunc,
	},
}
