package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/memogrid/internal/runlog"
)

// AssertStepRan checks the log output within a HarnessResult to confirm that
// a specific step was executed rather than served from the cache.
func AssertStepRan(t *testing.T, result *HarnessResult, stepName string) {
	t.Helper()

	expectedLogSubstring := fmt.Sprintf("step=%s", stepName)
	for _, line := range strings.Split(result.LogOutput, "\n") {
		if strings.Contains(line, "Finished step") && strings.Contains(line, expectedLogSubstring) {
			return
		}
	}
	require.Fail(t, fmt.Sprintf("expected log output for step '%s' was not found in logs", stepName))
}

// AssertStatus checks the final recorded status of a step.
func AssertStatus(t *testing.T, result *HarnessResult, stepName string, want runlog.Status) {
	t.Helper()

	require.NotNil(t, result.Result, "run produced no result: %v", result.Err)
	entry, ok := result.Result.Entry(stepName)
	require.True(t, ok, "no entry recorded for step '%s'", stepName)
	final, ok := entry.Final()
	require.True(t, ok, "entry for step '%s' holds no records", stepName)
	require.Equal(t, want, final.Status, "status of step '%s'", stepName)
}

// SubStepStatuses returns the statuses of one sub-step of a composite step,
// in iteration order.
func SubStepStatuses(t *testing.T, result *HarnessResult, composite, sub string) []runlog.Status {
	t.Helper()

	require.NotNil(t, result.Result, "run produced no result: %v", result.Err)
	entry, ok := result.Result.Entry(composite)
	require.True(t, ok, "no entry recorded for step '%s'", composite)
	var statuses []runlog.Status
	for _, r := range entry.Records {
		if r.Step == sub {
			statuses = append(statuses, r.Status)
		}
	}
	return statuses
}
