package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/memogrid/internal/testutil"
)

// Test for: Syntactically invalid HCL stops the run during loading.
func TestErrorHandling_InvalidHCLIsRejected(t *testing.T) {
	// --- Arrange ---
	hcl := `
step "a" {
  handler = "noop"
  version = "001"
`

	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"pipeline/main.hcl": hcl}, &testutil.NoOpModule{})

	// --- Assert ---
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to load pipeline")
	assert.Nil(t, result.Result)
}
