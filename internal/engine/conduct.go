package engine

import (
	"context"
	"fmt"

	"github.com/specialistvlad/memogrid/internal/cachekey"
	"github.com/specialistvlad/memogrid/internal/ctxlog"
	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/runlog"
)

// Conduct runs p and records the run under experiment.
//
// Validation and planning errors are returned with a nil Result and leave
// no run file behind. Once a run file number is allocated the Result is
// always non-nil: a failing step is recorded as failed, the entries reached
// so far are persisted, and a *StepError is returned. Steps after the failed
// one do not run.
func (e *Engine) Conduct(ctx context.Context, p *pipeline.Pipeline, experiment string) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("experiment", experiment)

	if p == nil {
		return nil, fmt.Errorf("%w: nil pipeline", pipeline.ErrInvalidStep)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline: %w", err)
	}

	d := newDecider(e.store)
	planned, err := e.plan(d, p)
	if err != nil {
		return nil, fmt.Errorf("planning: %w", err)
	}
	logger.Info("Planned run.", "steps", p.Len(), "executing", len(planned))

	runPath, err := e.runs.Next(experiment)
	if err != nil {
		return nil, err
	}

	res := &Result{RunPath: runPath, Planned: planned}
	deps := make(map[string]string, p.Len())
	for _, entry := range p.Entries() {
		err := ctx.Err()
		if err == nil {
			err = e.runStep(ctx, d, entry, deps, res)
		} else {
			res.Entries = append(res.Entries, e.failedEntry(entry))
		}
		if err != nil {
			logger.Error("❌ Step failed", "step", entry.Name, "error", err)
			if werr := e.runs.Write(runPath, res.Entries); werr != nil {
				logger.Error("Failed to write run file.", "path", runPath, "error", werr)
			}
			return res, &StepError{Step: entry.Name, Err: err}
		}
	}

	if err := e.runs.Write(runPath, res.Entries); err != nil {
		return res, fmt.Errorf("writing run file: %w", err)
	}
	logger.Info("✅ Run finished.", "path", runPath)
	return res, nil
}

// plan selects the steps that must execute, in declaration order. Every
// selected step is marked on d before the next step is decided.
func (e *Engine) plan(d *decider, p *pipeline.Pipeline) ([]string, error) {
	var planned []string
	for _, entry := range p.Entries() {
		var exec bool
		var err error
		switch step := entry.Step.(type) {
		case *pipeline.Singleton:
			exec, err = d.single(cachekey.Derive(entry.Name, step.Version, step.Params), step.Params, nil)
		case *pipeline.MapReduce:
			exec, err = d.composite(entry.Name, step)
		default:
			return nil, fmt.Errorf("%w: step %q is %T", ErrUnknownStepKind, entry.Name, entry.Step)
		}
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", entry.Name, err)
		}
		if exec {
			d.mark(entry.Name)
			planned = append(planned, entry.Name)
		}
	}
	return planned, nil
}

// runStep handles one declared step and appends its entry to res. On error
// the entry carries a failed record.
func (e *Engine) runStep(ctx context.Context, d *decider, entry pipeline.Entry, deps map[string]string, res *Result) error {
	logger := ctxlog.FromContext(ctx).With("step", entry.Name)
	ctx = ctxlog.WithLogger(ctx, logger)

	switch step := entry.Step.(type) {
	case *pipeline.Singleton:
		if !d.isMarked(entry.Name) {
			path := e.store.Path(cachekey.Derive(entry.Name, step.Version, step.Params))
			record := e.cachedRecord(entry.Name, step.Version, step.Params, path)
			res.Entries = append(res.Entries, runlog.Entry{Name: entry.Name, Record: &record})
			deps[entry.Name] = path
			e.metrics.StepFinished(step.Kind().String(), string(runlog.StatusCached), 0)
			logger.Info("♻️ Step cached")
			return nil
		}

		logger.Info("▶️ Starting step")
		start := e.now()
		path, err := e.execute(ctx, entry.Name, step.Version, step.Func, step.Params, deps)
		end := e.now()
		status := runlog.StatusExecuted
		if err != nil {
			status, path = runlog.StatusFailed, ""
		}
		record := timedRecord(entry.Name, step.Version, step.Params, start, end, status, path)
		res.Entries = append(res.Entries, runlog.Entry{Name: entry.Name, Record: &record})
		e.metrics.StepFinished(step.Kind().String(), string(status), end.Sub(start))
		if err != nil {
			return err
		}
		deps[entry.Name] = path
		logger.Info("✅ Finished step", "cache_path", path)
		return nil

	case *pipeline.MapReduce:
		own, err := step.OwnParams()
		if err != nil {
			return err
		}
		if !d.isMarked(entry.Name) {
			path := e.store.Path(cachekey.Derive(entry.Name, step.Version, own))
			record := e.cachedRecord(entry.Name, step.Version, own, path)
			res.Entries = append(res.Entries, runlog.Entry{Name: entry.Name, Records: []runlog.Record{record}})
			deps[entry.Name] = path
			e.metrics.StepFinished(step.Kind().String(), string(runlog.StatusCached), 0)
			logger.Info("♻️ Step cached")
			return nil
		}

		logger.Info("▶️ Starting step", "iterations", step.Iterations())
		start := e.now()
		path, records, err := e.runMapReduce(ctx, d, entry.Name, step, deps)
		if err != nil {
			end := e.now()
			records = append(records, timedRecord(entry.Name, step.Version, own, start, end, runlog.StatusFailed, ""))
			res.Entries = append(res.Entries, runlog.Entry{Name: entry.Name, Records: records})
			e.metrics.StepFinished(step.Kind().String(), string(runlog.StatusFailed), end.Sub(start))
			return err
		}
		res.Entries = append(res.Entries, runlog.Entry{Name: entry.Name, Records: records})
		deps[entry.Name] = path
		e.metrics.StepFinished(step.Kind().String(), string(runlog.StatusExecuted), e.now().Sub(start))
		logger.Info("✅ Finished step", "cache_path", path)
		return nil

	default:
		return fmt.Errorf("%w: step %q is %T", ErrUnknownStepKind, entry.Name, entry.Step)
	}
}
