// Package config defines the format-agnostic declaration model of a
// pipeline, along with the Loader interface for reading it from various
// sources.
//
// A Model names handlers and reducers by string. Build resolves those names
// against a registry and produces the pipeline the engine runs. Concrete
// loaders, such as for HCL, are provided in separate packages.
package config
