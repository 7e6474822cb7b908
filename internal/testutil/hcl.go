package testutil

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/memogrid/internal/config"
	"github.com/specialistvlad/memogrid/internal/hcl"
)

// LoadHCL parses a single pipeline HCL string from an in-memory filesystem
// and returns the translated model.
func LoadHCL(t *testing.T, pipelineHCL string) (*config.Model, error) {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/pipeline/main.hcl", []byte(pipelineHCL), 0o644))
	return hcl.NewLoader(fs).Load(context.Background(), "/pipeline")
}
