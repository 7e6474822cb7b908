package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/memogrid/internal/store"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePath string // hcl files
	CacheDir     string // artifacts
	OutputsDir   string // run files
	Experiment   string
	Codec        string

	LogFormat   string
	LogLevel    string
	MetricsPort int

	// Inspect prints the latest run instead of running the pipeline.
	Inspect bool
}

// Defaults applied by NewConfig to empty fields.
const (
	DefaultCacheDir   = "cache"
	DefaultOutputsDir = "outputs"
	DefaultExperiment = "default"
	DefaultCodec      = "json"
)

// NewConfig fills in defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" && !cfg.Inspect {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}
	if cfg.OutputsDir == "" {
		cfg.OutputsDir = DefaultOutputsDir
	}
	if cfg.Experiment == "" {
		cfg.Experiment = DefaultExperiment
	}
	if cfg.Codec == "" {
		cfg.Codec = DefaultCodec
	}
	if _, err := store.CodecByName(cfg.Codec); err != nil {
		return nil, err
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("unknown log format %q, expected text or json", cfg.LogFormat)
	}
	switch cfg.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	if cfg.MetricsPort < 0 {
		return nil, fmt.Errorf("metrics port must not be negative, got %d", cfg.MetricsPort)
	}
	return &cfg, nil
}
