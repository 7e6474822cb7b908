package engine

import (
	"context"
	"fmt"

	"github.com/specialistvlad/memogrid/internal/cachekey"
	"github.com/specialistvlad/memogrid/internal/ctxlog"
	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/runlog"
)

// execute invokes fn with params and stores its result. deps maps step
// names to the artifact paths of steps already handled in this run; every
// reference in params is replaced by the loaded artifact before the call.
// The artifact is stored under the key of the unsubstituted params. A nil
// result is not stored and yields runlog.NoResult as the path.
func (e *Engine) execute(ctx context.Context, name, version string, fn pipeline.StepFunc, params pipeline.Params, deps map[string]string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	call := params.Clone()
	call[cachekey.ParamStepName] = name
	call[cachekey.ParamVersion] = version
	if err := checkRequired(call); err != nil {
		return "", err
	}

	for k, v := range call {
		ref, ok := v.(pipeline.StepRef)
		if !ok {
			continue
		}
		value, err := e.resolve(ref, deps)
		if err != nil {
			return "", fmt.Errorf("parameter %q: %w", k, err)
		}
		logger.Debug("Substituted step reference.", "param", k, "ref", ref.Name)
		call[k] = value
	}

	result, err := invoke(ctx, fn, call)
	if err != nil {
		return "", err
	}
	if result == nil {
		logger.Debug("Step returned no result, nothing stored.")
		return runlog.NoResult, nil
	}

	path, err := e.store.Put(cachekey.Derive(name, version, params), result)
	if err != nil {
		return "", fmt.Errorf("storing result: %w", err)
	}
	return path, nil
}

// resolve loads the result of the referenced step. A step that produced no
// result resolves to nil.
func (e *Engine) resolve(ref pipeline.StepRef, deps map[string]string) (any, error) {
	path, ok := deps[ref.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q has not run", pipeline.ErrUnresolvedReference, ref.Name)
	}
	if path == runlog.NoResult {
		return nil, nil
	}
	value, err := e.store.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading result of %q: %w", ref.Name, err)
	}
	return value, nil
}

func checkRequired(params pipeline.Params) error {
	for _, key := range []string{cachekey.ParamStepName, cachekey.ParamVersion} {
		if params.String(key) == "" {
			return fmt.Errorf("%w: %q", ErrMissingRequiredParameter, key)
		}
	}
	return nil
}

func invoke(ctx context.Context, fn pipeline.StepFunc, params pipeline.Params) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step function panicked: %v", r)
		}
	}()
	return fn(ctx, params)
}

func reduce(ctx context.Context, fn pipeline.ReduceFunc, results []any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reduce function panicked: %v", r)
		}
	}()
	return fn(ctx, results)
}
