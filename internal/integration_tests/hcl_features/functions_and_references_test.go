package integration_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/memogrid/internal/runlog"
	"github.com/specialistvlad/memogrid/internal/testutil"
	"github.com/specialistvlad/memogrid/modules/math"
	"github.com/specialistvlad/memogrid/modules/print"
)

// Test for: range() builds map sequences and a constant may reference an
// outer step.
func TestHCLFeatures_RangeAndOuterReference(t *testing.T) {
	// --- Arrange ---
	hcl := `
step "base" {
  handler = "add"
  version = "001"
  arguments {
    arg1 = 10
  }
}

mapreduce "sweep" {
  version = "001"
  reduce  = "mean"

  map {
    factor = range(1, 4)
  }

  constant {
    arg1 = step.base
  }

  step "scaled" {
    handler = "scale"
  }
}
`

	// --- Act ---
	result := testutil.RunIntegrationTest(t, map[string]string{"pipeline/main.hcl": hcl}, &math.Module{})

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertStatus(t, result, "sweep", runlog.StatusExecuted)
	entry, _ := result.Result.Entry("sweep")
	final, _ := entry.Final()
	value, err := result.App.Store().Load(final.CachePath)
	require.NoError(t, err)
	// mean(10*1, 10*2, 10*3)
	assert.InDelta(t, 20.0, value, 1e-9)
}

// Test for: Steps split across files run in file order.
func TestHCLFeatures_MultipleFiles(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"pipeline/01_base.hcl": `
step "base" {
  handler = "add"
  version = "001"
  arguments {
    arg1 = 1
  }
}
`,
		"pipeline/02_next.hcl": `
step "next" {
  handler = "add"
  version = "001"
  arguments {
    arg1   = step.base
    offset = 1
  }
}
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files, &math.Module{})

	// --- Assert ---
	require.NoError(t, result.Err)
	require.Len(t, result.Result.Entries, 2)
	assert.Equal(t, "base", result.Result.Entries[0].Name)
	assert.Equal(t, "next", result.Result.Entries[1].Name)
}

// Test for: A step whose handler returns nothing always runs and its
// dependents see null.
func TestHCLFeatures_NoResultAlwaysRuns(t *testing.T) {
	// --- Arrange ---
	var out testutil.SafeBuffer
	hcl := `
step "say" {
  handler = "noop"
  version = "001"
}

step "show" {
  handler = "print"
  version = "001"
  arguments {
    value = step.say
  }
}
`
	h := testutil.NewHarness(t, map[string]string{"pipeline/main.hcl": hcl},
		&testutil.NoOpModule{},
		&testutil.SimpleModule{HandlerName: "print", Handler: print.OnRunPrint(&out)},
	)
	require.NoError(t, h.Run(context.Background()).Err)

	// --- Act ---
	result := h.Run(context.Background())

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertStepRan(t, result, "say")
	testutil.AssertStepRan(t, result, "show")
	entry, _ := result.Result.Entry("say")
	assert.Equal(t, runlog.NoResult, entry.Record.CachePath)
	assert.Contains(t, out.String(), "value = <nil>")
}
