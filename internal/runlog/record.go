// Package runlog persists run provenance: one JSON file per conduct
// invocation, numbered run_0000.json, run_0001.json, ... under
// <outputs>/<experiment>/.
//
// A file is a JSON array with one [stepName, metadata] pair per declared
// step. metadata is a single Record for a singleton step, or an array of
// per-iteration sub-step records closed by the composite's own record.
package runlog

import (
	"bytes"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Status is the outcome of a step in one run.
type Status string

const (
	StatusExecuted Status = "executed"
	StatusCached   Status = "cached"
	StatusFailed   Status = "failed"
)

// NoResult is recorded as the cache path of a step whose function returned
// nothing to cache.
const NoResult = "no result to cache"

// Record is the metadata of one step invocation.
type Record struct {
	// Step and Iteration are set on sub-step records of a composite step.
	Step      string         `json:"step,omitempty"`
	Iteration *int           `json:"iteration,omitempty"`
	Version   string         `json:"version"`
	Date      string         `json:"date"`
	StartTime string         `json:"start_time"`
	EndTime   string         `json:"end_time"`
	Kwargs    map[string]any `json:"kwargs"`
	Status    Status         `json:"execution_status"`
	CachePath string         `json:"cache_path"`
}

// HasArtifact reports whether the record points at a stored artifact.
func (r Record) HasArtifact() bool {
	return r.Status != StatusFailed && r.CachePath != "" && r.CachePath != NoResult
}

// Entry is the metadata of one declared step.
type Entry struct {
	Name string
	// Record is set for singleton steps.
	Record *Record
	// Records is set for composite steps; the last element is the record of
	// the composite step itself.
	Records []Record
}

// Composite reports whether the entry belongs to a composite step.
func (e Entry) Composite() bool { return e.Record == nil }

// Final returns the record summarizing the step: the singleton's record, or
// the composite's own closing record.
func (e Entry) Final() (Record, bool) {
	if e.Record != nil {
		return *e.Record, true
	}
	if len(e.Records) == 0 {
		return Record{}, false
	}
	return e.Records[len(e.Records)-1], true
}

// MarshalJSON encodes the entry as a [name, metadata] pair.
func (e Entry) MarshalJSON() ([]byte, error) {
	var metadata any = e.Records
	if e.Record != nil {
		metadata = e.Record
	} else if e.Records == nil {
		metadata = []Record{}
	}
	return json.Marshal([]any{e.Name, metadata})
}

// UnmarshalJSON decodes a [name, metadata] pair.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair []jsoniter.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("run entry must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &e.Name); err != nil {
		return fmt.Errorf("run entry name: %w", err)
	}
	raw := bytes.TrimSpace(pair[1])
	if len(raw) > 0 && raw[0] == '[' {
		e.Record = nil
		return json.Unmarshal(raw, &e.Records)
	}
	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("run entry %q: %w", e.Name, err)
	}
	e.Record = &r
	e.Records = nil
	return nil
}
