package integration_tests

import (
	"github.com/specialistvlad/memogrid/internal/registry"
	"github.com/specialistvlad/memogrid/internal/testutil"
	"github.com/specialistvlad/memogrid/modules/math"
)

// countingMath registers a counted "add" handler next to the "scale"
// handler and the "sum" reducer.
func countingMath() (*testutil.CountingModule, []registry.Module) {
	add := testutil.NewCountingModule("add", math.OnRunAdd)
	return add, []registry.Module{
		add,
		&testutil.SimpleModule{HandlerName: "scale", Handler: math.OnRunScale},
		&testutil.SimpleModule{ReducerName: "sum", Reducer: math.Sum},
	}
}
