package app

import (
	"github.com/specialistvlad/memogrid/internal/registry"
	"github.com/specialistvlad/memogrid/modules/math"
	"github.com/specialistvlad/memogrid/modules/print"
)

// coreModules is the definitive list of all modules that are compiled into
// the memogrid binary.
var coreModules = []registry.Module{
	&math.Module{},
	&print.Module{},
}
