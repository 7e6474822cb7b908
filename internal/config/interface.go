package config

import "context"

// Loader is the interface for a format-specific pipeline loader.
type Loader interface {
	// Load reads the declarations found at the given paths and translates
	// them into the format-agnostic model. Declaration order across files is
	// preserved.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
