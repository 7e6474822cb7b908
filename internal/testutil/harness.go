package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/memogrid/internal/app"
	"github.com/specialistvlad/memogrid/internal/engine"
	"github.com/specialistvlad/memogrid/internal/hcl"
	"github.com/specialistvlad/memogrid/internal/registry"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Reset discards everything written so far.
func (b *SafeBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.b.Reset()
}

// Harness runs pipelines from HCL files in a temporary directory. The cache
// and outputs directories live next to the pipeline files and survive
// between runs, so a test can run the same harness repeatedly.
type Harness struct {
	t       *testing.T
	Dir     string
	Logs    *SafeBuffer
	modules []registry.Module
}

// HarnessResult holds the outcomes of one run.
type HarnessResult struct {
	LogOutput string
	Result    *engine.Result
	Err       error
	App       *app.App
}

// NewHarness writes files below a fresh temporary directory. Paths in files
// are relative to it; pipeline files belong under "pipeline/".
func NewHarness(t *testing.T, files map[string]string, modules ...registry.Module) *Harness {
	t.Helper()
	h := &Harness{t: t, Dir: t.TempDir(), Logs: &SafeBuffer{}, modules: modules}
	require.NoError(t, os.MkdirAll(filepath.Join(h.Dir, "pipeline"), 0o755))
	h.WriteFiles(files)
	t.Cleanup(func() {
		if os.Getenv("MEMOGRID_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), h.Logs.String())
		}
	})
	return h
}

// WriteFiles creates or replaces files below the harness directory.
func (h *Harness) WriteFiles(files map[string]string) {
	h.t.Helper()
	for name, content := range files {
		path := filepath.Join(h.Dir, name)
		require.NoError(h.t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(h.t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// Config returns the app configuration the harness runs with.
func (h *Harness) Config() *app.Config {
	h.t.Helper()
	cfg, err := app.NewConfig(app.Config{
		PipelinePath: filepath.Join(h.Dir, "pipeline"),
		CacheDir:     filepath.Join(h.Dir, "cache"),
		OutputsDir:   filepath.Join(h.Dir, "outputs"),
		Experiment:   "test",
		LogLevel:     "debug",
		LogFormat:    "text",
	})
	require.NoError(h.t, err)
	return cfg
}

// NewApp builds an app over the harness directory.
func (h *Harness) NewApp(cfg *app.Config) *app.App {
	fs := afero.NewOsFs()
	opts := []app.Option{app.WithFs(fs)}
	if len(h.modules) > 0 {
		opts = append(opts, app.WithModules(h.modules...))
	}
	return app.NewApp(h.Logs, cfg, hcl.NewLoader(fs), opts...)
}

// Run conducts one run of the pipeline and captures the logs it wrote.
func (h *Harness) Run(ctx context.Context) *HarnessResult {
	h.t.Helper()
	h.Logs.Reset()
	testApp := h.NewApp(h.Config())
	res, err := testApp.Run(ctx)
	return &HarnessResult{
		LogOutput: h.Logs.String(),
		Result:    res,
		Err:       err,
		App:       testApp,
	}
}

// RunIntegrationTest provides a standardized harness for running a pipeline
// once using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return NewHarness(t, files, modules...).Run(context.Background())
}
