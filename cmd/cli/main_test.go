package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/memogrid/internal/cli"
)

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, []string{"-h"}))
	assert.Contains(t, out.String(), "PIPELINE_PATH")
}

func TestRun_BadFlag(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), &out, []string{"-no-such-flag"})
	var exitErr *cli.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
}

func TestRun_Pipeline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
step "a" {
  handler = "add"
  version = "001"
  arguments {
    arg1 = 1
  }
}
`), 0o644))
	args := []string{
		"-cache-dir", filepath.Join(dir, "cache"),
		"-outputs-dir", filepath.Join(dir, "outputs"),
		path,
	}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), &out, args))
	_, err := os.Stat(filepath.Join(dir, "outputs", "default", "run_0000.json"))
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, run(context.Background(), &out, append(args[:4:4], "-inspect")))
	assert.Contains(t, out.String(), "run_0000.json")
}
