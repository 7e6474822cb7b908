// Package app wires a memogrid run together: it builds the handler registry,
// the content store, the run log and the metrics registry from a Config, then
// loads the pipeline and either conducts it or prints its latest run.
package app
