package runlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/facette/natsort"
	"github.com/spf13/afero"
	"github.com/specialistvlad/memogrid/internal/fsutil"
)

// ErrNoRuns is returned by Latest when an experiment has no run files yet.
var ErrNoRuns = errors.New("no runs recorded")

// Store reads and writes run files below a root outputs directory.
type Store struct {
	fs   afero.Fs
	root string
}

// New creates a store rooted at root, conventionally "outputs".
func New(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: root}
}

// ExperimentDir returns the directory holding an experiment's runs.
func (s *Store) ExperimentDir(experiment string) string {
	return filepath.Join(s.root, experiment)
}

// Next creates the experiment directory if needed and returns the path for
// the next run file, numbered by the count of entries already there.
func (s *Store) Next(experiment string) (string, error) {
	if experiment == "" {
		return "", errors.New("experiment name must not be empty")
	}
	dir := s.ExperimentDir(experiment)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating experiment directory: %w", err)
	}
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return "", fmt.Errorf("listing experiment directory: %w", err)
	}
	return filepath.Join(dir, fmt.Sprintf("run_%04d.json", len(infos))), nil
}

// Write stores entries at path.
func (s *Store) Write(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding run metadata: %w", err)
	}
	return fsutil.WriteFileAtomic(s.fs, path, data, 0o644)
}

// Read loads the run file at path.
func (s *Store) Read(path string) ([]Entry, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading run file: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding run file %s: %w", path, err)
	}
	return entries, nil
}

// Runs lists an experiment's run files in numeric order.
func (s *Store) Runs(experiment string) ([]string, error) {
	dir := s.ExperimentDir(experiment)
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing experiment directory: %w", err)
	}
	var names []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasPrefix(name, "run_") || filepath.Ext(name) != ".json" {
			continue
		}
		names = append(names, name)
	}
	natsort.Sort(names)
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// Latest loads the highest-numbered run of an experiment.
func (s *Store) Latest(experiment string) (string, []Entry, error) {
	runs, err := s.Runs(experiment)
	if err != nil {
		return "", nil, err
	}
	if len(runs) == 0 {
		return "", nil, fmt.Errorf("%w for experiment %q", ErrNoRuns, experiment)
	}
	path := runs[len(runs)-1]
	entries, err := s.Read(path)
	if err != nil {
		return "", nil, err
	}
	return path, entries, nil
}
