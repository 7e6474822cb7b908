package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/runlog"
	"github.com/specialistvlad/memogrid/internal/store"
)

const experiment = "exp"

type harness struct {
	fs     afero.Fs
	store  *store.Store
	runs   *runlog.Store
	engine *Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fs := afero.NewMemMapFs()
	s := store.New(fs, "cache", nil)
	runs := runlog.New(fs, "outputs")
	clock := func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) }
	return &harness{fs: fs, store: s, runs: runs, engine: New(s, runs, WithClock(clock))}
}

func (h *harness) conduct(t *testing.T, p *pipeline.Pipeline) *Result {
	t.Helper()
	res, err := h.engine.Conduct(context.Background(), p, experiment)
	require.NoError(t, err)
	return res
}

func (h *harness) load(t *testing.T, r runlog.Record) any {
	t.Helper()
	v, err := LoadArtifact(h.store, r)
	require.NoError(t, err)
	return v
}

// shift returns arg1 + 3.1 and counts its calls.
func shift(calls *int) pipeline.StepFunc {
	return func(_ context.Context, p pipeline.Params) (any, error) {
		*calls++
		x, err := p.Float("arg1")
		if err != nil {
			return nil, err
		}
		return 3.1 + x, nil
	}
}

func sum(_ context.Context, results []any) (any, error) {
	var total float64
	for _, r := range results {
		total += r.(float64)
	}
	return total, nil
}

func singleRecord(t *testing.T, res *Result, name string) runlog.Record {
	t.Helper()
	entry, ok := res.Entry(name)
	require.True(t, ok, "no entry for %q", name)
	require.NotNil(t, entry.Record, "entry %q is not a singleton", name)
	return *entry.Record
}

func compositeRecords(t *testing.T, res *Result, name string) []runlog.Record {
	t.Helper()
	entry, ok := res.Entry(name)
	require.True(t, ok, "no entry for %q", name)
	require.True(t, entry.Composite(), "entry %q is not a composite", name)
	return entry.Records
}

type bogusStep struct{}

func (bogusStep) Kind() pipeline.Kind { return pipeline.Kind(99) }

func TestLoadArtifact_NoResult(t *testing.T) {
	h := newHarness(t)
	_, err := LoadArtifact(h.store, runlog.Record{Status: runlog.StatusExecuted, CachePath: runlog.NoResult})
	require.ErrorIs(t, err, store.ErrArtifactNotFound)
}

func TestStepError(t *testing.T) {
	boom := errors.New("boom")
	err := error(&StepError{Step: "B", Err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `step "B" failed: boom`)
}
