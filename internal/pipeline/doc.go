// Package pipeline defines the declaration model executed by the engine: an
// ordered, uniquely named collection of steps.
//
// A step is either a Singleton (one function and one parameter mapping) or a
// MapReduce (an ordered sub-pipeline run once per entry of parallel parameter
// sequences and combined by a reduce function). Declaration order is
// execution order.
//
// Dependencies are explicit. A parameter whose value is a StepRef depends on
// the named step; Validate resolves every reference into an edge pointing at a
// step declared earlier and rejects anything else. A plain string that happens
// to equal a step name is just a string.
package pipeline
