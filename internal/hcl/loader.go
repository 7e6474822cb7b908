package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"

	"github.com/specialistvlad/memogrid/internal/config"
	"github.com/specialistvlad/memogrid/internal/ctxlog"
	"github.com/specialistvlad/memogrid/internal/fsutil"
	"github.com/specialistvlad/memogrid/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	fs afero.Fs
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL pipeline loader reading from fs.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// Load parses every .hcl file found at paths, in path order and, within a
// directory, in lexical file order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &config.Model{}
	for _, file := range files {
		src, err := afero.ReadFile(l.fs, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read HCL file %s: %w", file, err)
		}
		hclFile, diags := parser.ParseHCL(src, file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		steps, err := decodeFile(hclFile.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, err)
		}
		model.Steps = append(model.Steps, steps...)
	}

	logger.Debug("HCL loading complete.", "steps", len(model.Steps))
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found, without duplicates.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(l.fs, path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			all = append(all, f)
		}
	}
	return all, nil
}

// decodeFile translates the top-level blocks of one file in source order.
func decodeFile(body hcl.Body) ([]*config.Step, error) {
	content, diags := body.Content(schema.File)
	if diags.HasErrors() {
		return nil, diags
	}

	var steps []*config.Step
	for _, block := range content.Blocks {
		switch block.Type {
		case "step":
			var s schema.Step
			if diags := gohcl.DecodeBody(block.Body, nil, &s); diags.HasErrors() {
				return nil, diags
			}
			s.Name = block.Labels[0]
			step, err := translateStep(&s, block.DefRange)
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
		case "mapreduce":
			var m schema.MapReduce
			if diags := gohcl.DecodeBody(block.Body, nil, &m); diags.HasErrors() {
				return nil, diags
			}
			m.Name = block.Labels[0]
			step, err := translateMapReduce(&m, block.DefRange)
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
		}
	}
	return steps, nil
}
