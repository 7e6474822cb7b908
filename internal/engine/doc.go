// Package engine runs pipelines incrementally.
//
// A run has three phases. Planning walks the declared steps in order and
// decides which must execute: a step executes when no artifact exists under
// its cache key, or when it references a step already planned for execution
// in this run. Execution walks the steps again, invoking the planned ones
// and synthesizing cached records for the rest. Persisting writes the run's
// metadata to a freshly numbered run file, also when a step fails.
//
// MapReduce steps are decided per iteration and per sub-step, so changing
// one sub-step re-executes only what depends on it.
package engine
