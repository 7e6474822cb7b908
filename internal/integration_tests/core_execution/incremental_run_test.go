package integration_tests

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/memogrid/internal/runlog"
	"github.com/specialistvlad/memogrid/internal/testutil"
)

const chainHCL = `
step "a" {
  handler = "add"
  version = "001"
  arguments {
    arg1   = 2.9
    offset = 1
  }
}

step "b" {
  handler = "add"
  version = "001"
  arguments {
    arg1   = step.a
    offset = 10
  }
}
`

// Test for: A second run with unchanged configuration executes nothing.
func TestCoreExecution_SecondRunIsCached(t *testing.T) {
	// --- Arrange ---
	add, modules := countingMath()
	h := testutil.NewHarness(t, map[string]string{"pipeline/main.hcl": chainHCL}, modules...)

	// --- Act ---
	first := h.Run(context.Background())
	second := h.Run(context.Background())

	// --- Assert ---
	require.NoError(t, first.Err)
	require.NoError(t, second.Err)
	testutil.AssertStepRan(t, first, "a")
	testutil.AssertStepRan(t, first, "b")
	testutil.AssertStatus(t, second, "a", runlog.StatusCached)
	testutil.AssertStatus(t, second, "b", runlog.StatusCached)
	assert.Empty(t, second.Result.Planned)
	assert.Equal(t, 1, add.Calls("a"))
	assert.Equal(t, 1, add.Calls("b"))

	assert.Equal(t, "run_0000.json", filepath.Base(first.Result.RunPath))
	assert.Equal(t, "run_0001.json", filepath.Base(second.Result.RunPath))
	assert.Equal(t, filepath.Join(h.Dir, "outputs", "test"), filepath.Dir(second.Result.RunPath))
}

// Test for: The value of an upstream step reaches its dependent.
func TestCoreExecution_DependencyResultIsSubstituted(t *testing.T) {
	// --- Arrange ---
	_, modules := countingMath()
	h := testutil.NewHarness(t, map[string]string{"pipeline/main.hcl": chainHCL}, modules...)

	// --- Act ---
	result := h.Run(context.Background())

	// --- Assert ---
	require.NoError(t, result.Err)
	entry, ok := result.Result.Entry("b")
	require.True(t, ok)
	value, err := h.NewApp(h.Config()).Store().Load(entry.Record.CachePath)
	require.NoError(t, err)
	assert.InDelta(t, 13.9, value, 1e-9)
	assert.Equal(t, "a", entry.Record.Kwargs["arg1"])
}

// Test for: Bumping the version of an upstream step re-runs it and every
// step that depends on it, and nothing else.
func TestCoreExecution_VersionBumpPropagates(t *testing.T) {
	// --- Arrange ---
	add, modules := countingMath()
	h := testutil.NewHarness(t, map[string]string{"pipeline/main.hcl": chainHCL + `
step "c" {
  handler = "add"
  version = "001"
  arguments {
    arg1 = 5
  }
}
`}, modules...)
	require.NoError(t, h.Run(context.Background()).Err)

	// --- Act ---
	h.WriteFiles(map[string]string{"pipeline/main.hcl": `
step "a" {
  handler = "add"
  version = "002"
  arguments {
    arg1   = 2.9
    offset = 1
  }
}

step "b" {
  handler = "add"
  version = "001"
  arguments {
    arg1   = step.a
    offset = 10
  }
}

step "c" {
  handler = "add"
  version = "001"
  arguments {
    arg1 = 5
  }
}
`})
	result := h.Run(context.Background())

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, []string{"a", "b"}, result.Result.Planned)
	testutil.AssertStatus(t, result, "a", runlog.StatusExecuted)
	testutil.AssertStatus(t, result, "b", runlog.StatusExecuted)
	testutil.AssertStatus(t, result, "c", runlog.StatusCached)
	assert.Equal(t, 2, add.Calls("a"))
	assert.Equal(t, 2, add.Calls("b"))
	assert.Equal(t, 1, add.Calls("c"))
}

// Test for: Changing a parameter whose name ends in _ignore keeps the cache.
func TestCoreExecution_IgnoredParameterKeepsCache(t *testing.T) {
	// --- Arrange ---
	pipelineWithSeed := func(seed string) map[string]string {
		return map[string]string{"pipeline/main.hcl": `
step "a" {
  handler = "add"
  version = "001"
  arguments {
    arg1        = 1
    seed_ignore = ` + seed + `
  }
}
`}
	}
	add, modules := countingMath()
	h := testutil.NewHarness(t, pipelineWithSeed("1"), modules...)
	require.NoError(t, h.Run(context.Background()).Err)

	// --- Act ---
	h.WriteFiles(pipelineWithSeed("2"))
	result := h.Run(context.Background())

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertStatus(t, result, "a", runlog.StatusCached)
	assert.Equal(t, 1, add.Calls("a"))
}
