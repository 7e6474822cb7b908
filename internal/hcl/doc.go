// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for file discovery, parsing, and translating
// step and mapreduce blocks into the format-agnostic model.
//
// Arguments are evaluated without variables. The only traversal allowed is
// step.NAME, which becomes a reference to the result of step NAME.
package hcl
