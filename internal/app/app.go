package app

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/afero"

	"github.com/specialistvlad/memogrid/internal/config"
	"github.com/specialistvlad/memogrid/internal/engine"
	"github.com/specialistvlad/memogrid/internal/metrics"
	"github.com/specialistvlad/memogrid/internal/registry"
	"github.com/specialistvlad/memogrid/internal/runlog"
	"github.com/specialistvlad/memogrid/internal/store"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     config.Loader
	registry   *registry.Registry
	store      *store.Store
	runs       *runlog.Store
	engine     *engine.Engine
	metrics    *prometheus.Registry
	httpServer *http.Server
}

// Option customizes an App.
type Option func(*options)

type options struct {
	fs      afero.Fs
	modules []registry.Module
}

// WithFs replaces the OS filesystem used for the cache and run files.
func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithModules registers modules instead of the core modules.
func WithModules(modules ...registry.Module) Option {
	return func(o *options) { o.modules = modules }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// cfg is expected to come from NewConfig.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, opts ...Option) *App {
	o := options{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(&o)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	modules := o.modules
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules), "handlers", reg.Handlers(), "reducers", reg.Reducers())

	// NewConfig already rejected unknown codecs.
	codec, _ := store.CodecByName(cfg.Codec)
	artifacts := store.New(o.fs, cfg.CacheDir, codec)
	runs := runlog.New(o.fs, cfg.OutputsDir)

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New(promReg)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		registry: reg,
		store:    artifacts,
		runs:     runs,
		engine:   engine.New(artifacts, runs, engine.WithMetrics(collector)),
		metrics:  promReg,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Store returns the application's content store.
func (a *App) Store() *store.Store {
	return a.store
}
