package cli

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/memogrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// fileConfig is the layout of the YAML file named by -config.
type fileConfig struct {
	Pipeline    string `yaml:"pipeline"`
	CacheDir    string `yaml:"cache_dir"`
	OutputsDir  string `yaml:"outputs_dir"`
	Experiment  string `yaml:"experiment"`
	Codec       string `yaml:"codec"`
	LogFormat   string `yaml:"log_format"`
	LogLevel    string `yaml:"log_level"`
	MetricsPort int    `yaml:"metrics_port"`
}

func (f fileConfig) appConfig() app.Config {
	return app.Config{
		PipelinePath: f.Pipeline,
		CacheDir:     f.CacheDir,
		OutputsDir:   f.OutputsDir,
		Experiment:   f.Experiment,
		Codec:        f.Codec,
		LogFormat:    f.LogFormat,
		LogLevel:     f.LogLevel,
		MetricsPort:  f.MetricsPort,
	}
}

func readConfigFile(path string) (app.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return app.Config{}, fmt.Errorf("reading config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f fileConfig
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return app.Config{}, fmt.Errorf("decoding config file %s: %w", path, err)
	}
	return f.appConfig(), nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Values come from, in decreasing priority: flags given on the command line,
// the -config file, flag defaults.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("memogrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
memogrid - An incremental pipeline runner that caches every step.

Usage:
  memogrid [options] [PIPELINE_PATH]

Arguments:
  PIPELINE_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	pipelineFlag := flagSet.String("pipeline", "", "Path to the pipeline file or directory.")
	pFlag := flagSet.String("p", "", "Path to the pipeline file or directory (shorthand).")
	cacheDirFlag := flagSet.String("cache-dir", app.DefaultCacheDir, "Directory holding cached step artifacts.")
	outputsDirFlag := flagSet.String("outputs-dir", app.DefaultOutputsDir, "Directory holding run metadata files.")
	experimentFlag := flagSet.String("experiment", app.DefaultExperiment, "Experiment name; runs are numbered per experiment.")
	codecFlag := flagSet.String("codec", app.DefaultCodec, "Artifact encoding. Options: 'json' or 'cty'.")
	metricsPortFlag := flagSet.Int("metrics-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	configFlag := flagSet.String("config", "", "Optional YAML file with default values for these options.")
	inspectFlag := flagSet.Bool("inspect", false, "Print the latest run of the experiment and exit.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	defaults := app.Config{
		CacheDir:   *cacheDirFlag,
		OutputsDir: *outputsDirFlag,
		Experiment: *experimentFlag,
		Codec:      *codecFlag,
		LogFormat:  strings.ToLower(*logFormatFlag),
		LogLevel:   strings.ToLower(*logLevelFlag),
	}

	var explicit app.Config
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cache-dir":
			explicit.CacheDir = *cacheDirFlag
		case "outputs-dir":
			explicit.OutputsDir = *outputsDirFlag
		case "experiment":
			explicit.Experiment = *experimentFlag
		case "codec":
			explicit.Codec = *codecFlag
		case "metrics-port":
			explicit.MetricsPort = *metricsPortFlag
		case "log-format":
			explicit.LogFormat = defaults.LogFormat
		case "log-level":
			explicit.LogLevel = defaults.LogLevel
		}
	})
	if *pipelineFlag != "" {
		explicit.PipelinePath = *pipelineFlag
	} else if *pFlag != "" {
		explicit.PipelinePath = *pFlag
	} else if flagSet.NArg() > 0 {
		explicit.PipelinePath = flagSet.Arg(0)
	}

	layers := []app.Config{defaults}
	if *configFlag != "" {
		fromFile, err := readConfigFile(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		layers = append([]app.Config{fromFile}, layers...)
	}
	merged := explicit
	for _, layer := range layers {
		if err := mergo.Merge(&merged, layer); err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
	}
	merged.Inspect = *inspectFlag
	slog.Debug("Pipeline path determined.", "path", merged.PipelinePath)

	if merged.PipelinePath == "" && !merged.Inspect {
		slog.Debug("No pipeline path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(merged)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
