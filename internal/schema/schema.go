package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Pipeline File Structures ---

// Body captures the raw attributes of an 'arguments', 'map' or 'constant'
// block for later evaluation.
type Body struct {
	Body hcl.Body `hcl:",remain"`
}

// Step represents a `step` block from a pipeline file. It binds a registered
// handler to a version and a set of arguments.
type Step struct {
	Name      string `hcl:"name,label"`
	Handler   string `hcl:"handler"`
	Version   string `hcl:"version,optional"`
	Arguments *Body  `hcl:"arguments,block"`
}

// MapReduce represents a `mapreduce` block: an ordered list of sub-steps run
// once per element of the 'map' sequences and combined by a reducer.
type MapReduce struct {
	Name     string  `hcl:"name,label"`
	Version  string  `hcl:"version"`
	Reduce   string  `hcl:"reduce"`
	Map      *Body   `hcl:"map,block"`
	Constant *Body   `hcl:"constant,block"`
	Steps    []*Step `hcl:"step,block"`
}

// File lists the top-level block types of a pipeline file. Blocks are read in
// source order with BodySchema, then decoded one at a time.
var File = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "step", LabelNames: []string{"name"}},
		{Type: "mapreduce", LabelNames: []string{"name"}},
	},
}
