package engine

import (
	"fmt"
	"time"

	"github.com/specialistvlad/memogrid/internal/metrics"
	"github.com/specialistvlad/memogrid/internal/runlog"
	"github.com/specialistvlad/memogrid/internal/store"
)

// Engine conducts pipeline runs against one content store and one run log.
type Engine struct {
	store   *store.Store
	runs    *runlog.Store
	metrics *metrics.Collector
	now     func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithMetrics records step outcomes on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

// WithClock replaces the wall clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine storing artifacts in s and run files in runs.
func New(s *store.Store, runs *runlog.Store, opts ...Option) *Engine {
	e := &Engine{store: s, runs: runs, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the engine's content store.
func (e *Engine) Store() *store.Store { return e.store }

// Result is the outcome of one Conduct call. On failure it holds the
// entries recorded up to and including the failed step.
type Result struct {
	// RunPath is the run file the entries were written to.
	RunPath string
	// Entries holds one entry per step that was reached, in declaration order.
	Entries []runlog.Entry
	// Planned lists the steps selected for execution during planning.
	Planned []string
}

// Entry returns the entry recorded for the named step.
func (r *Result) Entry(name string) (runlog.Entry, bool) {
	for _, e := range r.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return runlog.Entry{}, false
}

// LoadArtifact loads the artifact a record points at.
func LoadArtifact(s *store.Store, r runlog.Record) (any, error) {
	if !r.HasArtifact() {
		return nil, fmt.Errorf("%w: record has status %s and cache path %q", store.ErrArtifactNotFound, r.Status, r.CachePath)
	}
	return s.Load(r.CachePath)
}
