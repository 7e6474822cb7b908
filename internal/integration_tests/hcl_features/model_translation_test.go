package integration_tests

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/testutil"
)

// Test for: References, functions and ignored keys survive translation into
// the unified model.
func TestHCLFeatures_ModelTranslation(t *testing.T) {
	// --- Arrange ---
	hcl := `
step "base" {
  handler = "add"
  version = "001"
  arguments {
    arg1        = length(["a", "b", "c"])
    label       = upper(format("run-%d", 7))
    seed_ignore = 42
  }
}

step "next" {
  handler = "add"
  version = "001"
  arguments {
    arg1 = step.base
    name = "base"
  }
}
`

	// --- Act ---
	model, err := testutil.LoadHCL(t, hcl)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, model.Steps, 2)
	expectedBase := pipeline.Params{"arg1": 3.0, "label": "RUN-7", "seed_ignore": 42.0}
	if diff := cmp.Diff(expectedBase, model.Steps[0].Arguments); diff != "" {
		t.Errorf("base arguments mismatch (-want +got):\n%s", diff)
	}
	expectedNext := pipeline.Params{"arg1": pipeline.Ref("base"), "name": "base"}
	if diff := cmp.Diff(expectedNext, model.Steps[1].Arguments); diff != "" {
		t.Errorf("next arguments mismatch (-want +got):\n%s", diff)
	}
}
