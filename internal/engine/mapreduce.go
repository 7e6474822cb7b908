package engine

import (
	"context"
	"fmt"

	"github.com/specialistvlad/memogrid/internal/cachekey"
	"github.com/specialistvlad/memogrid/internal/ctxlog"
	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/runlog"
)

// runMapReduce executes the sub-pipeline of m once per iteration and
// reduces the final result of every iteration, in iteration order. It
// returns the composite's artifact path and one record per iteration and
// sub-step followed by the composite's own record. On error the records
// gathered so far are returned, closed by a failed record for the sub-step
// in progress if one was running.
func (e *Engine) runMapReduce(ctx context.Context, d *decider, name string, m *pipeline.MapReduce, deps map[string]string) (string, []runlog.Record, error) {
	logger := ctxlog.FromContext(ctx).With("step", name)
	start := e.now()

	n := m.Iterations()
	var records []runlog.Record
	finals := make([]string, 0, n)
	for i := 0; i < n; i++ {
		subs, err := subSteps(name, m, i)
		if err != nil {
			return "", records, err
		}

		local := make(map[string]bool, len(subs))
		iterDeps := make(map[string]string, len(deps)+len(subs))
		for k, v := range deps {
			iterDeps[k] = v
		}

		var final string
		for _, sub := range subs {
			subLogger := logger.With("substep", sub.name, "iteration", i)
			exec, err := d.single(sub.key, sub.params, local)
			if err != nil {
				return "", records, err
			}

			var path string
			if !exec {
				path = e.store.Path(sub.key)
				records = append(records, subRecord(e.cachedRecord(sub.name, sub.version, sub.params, path), sub.declared, i))
				e.metrics.StepFinished("substep", string(runlog.StatusCached), 0)
				subLogger.Debug("♻️ Sub-step cached")
			} else {
				subStart := e.now()
				path, err = e.execute(ctxlog.WithLogger(ctx, subLogger), sub.name, sub.version, sub.step.Func, sub.params, iterDeps)
				subEnd := e.now()
				if err != nil {
					records = append(records, subRecord(timedRecord(sub.name, sub.version, sub.params, subStart, subEnd, runlog.StatusFailed, ""), sub.declared, i))
					e.metrics.StepFinished("substep", string(runlog.StatusFailed), subEnd.Sub(subStart))
					return "", records, fmt.Errorf("sub-step %q: %w", sub.name, err)
				}
				records = append(records, subRecord(timedRecord(sub.name, sub.version, sub.params, subStart, subEnd, runlog.StatusExecuted, path), sub.declared, i))
				e.metrics.StepFinished("substep", string(runlog.StatusExecuted), subEnd.Sub(subStart))
				subLogger.Debug("✅ Sub-step executed")
			}

			local[sub.declared] = exec
			iterDeps[sub.declared] = path
			final = path
		}
		finals = append(finals, final)
	}

	results := make([]any, len(finals))
	for i, path := range finals {
		if path == runlog.NoResult {
			continue
		}
		value, err := e.store.Load(path)
		if err != nil {
			return "", records, fmt.Errorf("loading result of iteration %d: %w", i, err)
		}
		results[i] = value
	}

	reduced, err := reduce(ctx, m.Reduce, results)
	if err != nil {
		return "", records, fmt.Errorf("reduce: %w", err)
	}

	own, err := m.OwnParams()
	if err != nil {
		return "", records, err
	}
	path := runlog.NoResult
	if reduced != nil {
		path, err = e.store.Put(cachekey.Derive(name, m.Version, own), reduced)
		if err != nil {
			return "", records, fmt.Errorf("storing reduced result: %w", err)
		}
	}
	records = append(records, timedRecord(name, m.Version, own, start, e.now(), runlog.StatusExecuted, path))
	return path, records, nil
}
