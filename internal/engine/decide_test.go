package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/memogrid/internal/cachekey"
	"github.com/specialistvlad/memogrid/internal/pipeline"
)

func TestDecider_Single(t *testing.T) {
	h := newHarness(t)
	d := newDecider(h.store)

	params := pipeline.Params{"arg1": pipeline.Ref("A"), "x": 1}
	key := cachekey.Derive("B", "001", params)

	exec, err := d.single(key, params, nil)
	require.NoError(t, err)
	assert.True(t, exec, "missing artifact must execute")

	_, err = h.store.Put(key, 1.0)
	require.NoError(t, err)

	exec, err = d.single(key, params, nil)
	require.NoError(t, err)
	assert.False(t, exec, "stored artifact with unmarked references is cached")

	d.mark("A")
	exec, err = d.single(key, params, nil)
	require.NoError(t, err)
	assert.True(t, exec, "reference to a marked step must execute")

	exec, err = d.single(key, params, map[string]bool{"A": false})
	require.NoError(t, err)
	assert.False(t, exec, "a local sub-step shadows the marked outer step")

	exec, err = d.single(key, params, map[string]bool{"A": true})
	require.NoError(t, err)
	assert.True(t, exec)
}

func TestDecider_PlainStringIsNotADependency(t *testing.T) {
	h := newHarness(t)
	d := newDecider(h.store)

	params := pipeline.Params{"arg1": "A"}
	key := cachekey.Derive("B", "001", params)
	_, err := h.store.Put(key, 1.0)
	require.NoError(t, err)

	d.mark("A")
	exec, err := d.single(key, params, nil)
	require.NoError(t, err)
	assert.False(t, exec)
}

func TestDecider_Composite(t *testing.T) {
	h := newHarness(t)
	var calls int
	sub, err := pipeline.New(pipeline.Entry{Name: "shift", Step: &pipeline.Singleton{Func: shift(&calls), Version: "001"}})
	require.NoError(t, err)
	m := &pipeline.MapReduce{
		Steps:   sub,
		Map:     map[string][]any{"arg1": {2.9, 3.0}},
		Reduce:  sum,
		Version: "001",
	}
	p, err := pipeline.New(pipeline.Entry{Name: "sweep", Step: m})
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	d := newDecider(h.store)
	exec, err := d.composite("sweep", m)
	require.NoError(t, err)
	assert.True(t, exec)

	_, err = h.engine.Conduct(context.Background(), p, experiment)
	require.NoError(t, err)

	exec, err = d.composite("sweep", m)
	require.NoError(t, err)
	assert.False(t, exec)

	// Losing one iteration's artifact is enough to execute the composite.
	require.NoError(t, h.fs.Remove(h.store.Path(cachekey.Derive("sweep_shift_1", "001", pipeline.Params{"arg1": 3.0}))))
	exec, err = d.composite("sweep", m)
	require.NoError(t, err)
	assert.True(t, exec)
}
