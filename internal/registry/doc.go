// Package registry provides the central "glue" for the module system.
//
// The Registry stores mappings between the string identifiers used in
// pipeline files (e.g., handler = "add") and the compiled Go functions that
// implement them. Modules populate it at startup; the HCL loader resolves
// declarations against it and fails early on names nothing registered.
package registry
