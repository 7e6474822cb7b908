package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/memogrid/internal/app"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memogrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParse_Defaults(t *testing.T) {
	cfg, exit, err := Parse([]string{"grid.hcl"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, &app.Config{
		PipelinePath: "grid.hcl",
		CacheDir:     "cache",
		OutputsDir:   "outputs",
		Experiment:   "default",
		Codec:        "json",
		LogFormat:    "text",
		LogLevel:     "info",
	}, cfg)
}

func TestParse_Flags(t *testing.T) {
	cfg, _, err := Parse([]string{
		"-p", "pipelines",
		"-cache-dir", "/tmp/cache",
		"-outputs-dir", "/tmp/out",
		"-experiment", "sweep",
		"-codec", "cty",
		"-metrics-port", "9100",
		"-log-format", "JSON",
		"-log-level", "debug",
	}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "pipelines", cfg.PipelinePath)
	assert.Equal(t, "/tmp/cache", cfg.CacheDir)
	assert.Equal(t, "/tmp/out", cfg.OutputsDir)
	assert.Equal(t, "sweep", cfg.Experiment)
	assert.Equal(t, "cty", cfg.Codec)
	assert.Equal(t, 9100, cfg.MetricsPort)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_ConfigFile(t *testing.T) {
	path := writeConfig(t, `
pipeline: from-file.hcl
experiment: nightly
cache_dir: /var/cache/memogrid
log_level: warn
metrics_port: 9200
`)

	cfg, _, err := Parse([]string{"-config", path, "-experiment", "adhoc"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "from-file.hcl", cfg.PipelinePath)
	assert.Equal(t, "adhoc", cfg.Experiment, "explicit flags win over the file")
	assert.Equal(t, "/var/cache/memogrid", cfg.CacheDir)
	assert.Equal(t, "outputs", cfg.OutputsDir, "flag defaults fill what the file leaves out")
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 9200, cfg.MetricsPort)
}

func TestParse_ConfigFileErrors(t *testing.T) {
	path := writeConfig(t, "unknown_key: 1\n")
	_, _, err := Parse([]string{"-config", path}, &bytes.Buffer{})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)

	_, _, err = Parse([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, &bytes.Buffer{})
	require.ErrorAs(t, err, &exitErr)
}

func TestParse_Inspect(t *testing.T) {
	cfg, exit, err := Parse([]string{"-inspect", "-experiment", "sweep"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)
	assert.True(t, cfg.Inspect)
	assert.Equal(t, "sweep", cfg.Experiment)
}

func TestParse_Usage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "PIPELINE_PATH")

	_, exit, err = Parse([]string{"-h"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestParse_InvalidValues(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"log format", []string{"-log-format", "xml", "grid.hcl"}},
		{"log level", []string{"-log-level", "loud", "grid.hcl"}},
		{"codec", []string{"-codec", "gob", "grid.hcl"}},
		{"unknown flag", []string{"-workers", "3", "grid.hcl"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
