package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/memogrid/internal/ctxlog"
	"github.com/specialistvlad/memogrid/internal/engine"
	"github.com/specialistvlad/memogrid/internal/pipeline"
)

// Load reads the configured pipeline files and resolves them against the
// registry.
func (a *App) Load(ctx context.Context) (*pipeline.Pipeline, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	model, err := a.loader.Load(ctx, a.config.PipelinePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline: %w", err)
	}
	a.logger.Debug("Pipeline loaded and translated into unified model.", "steps", len(model.Steps))

	p, err := model.Build(a.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}
	return p, nil
}

// Run loads the pipeline and conducts one run of it. The returned result
// is non-nil whenever a run file was allocated, also on failure.
func (a *App) Run(ctx context.Context) (*engine.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.startServer()
	defer func() { _ = a.stopServer(ctx) }()

	p, err := a.Load(ctx)
	if err != nil {
		return nil, err
	}

	a.logger.Info("🚀 Starting run...", "experiment", a.config.Experiment, "steps", p.Len())
	res, err := a.engine.Conduct(ctx, p, a.config.Experiment)
	if err != nil {
		if res != nil {
			a.logger.Error("Run failed, partial metadata written.", "path", res.RunPath)
		}
		return res, fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.", "path", res.RunPath, "executed", len(res.Planned))
	return res, nil
}
