package engine

import (
	"time"

	"github.com/specialistvlad/memogrid/internal/cachekey"
	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/runlog"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
	// cachedTime stands in for start and end times of steps that did not run.
	cachedTime = "00:00:00"
)

// snapshot returns the parameters as recorded in metadata: the declared
// values, references rendered by name, plus the reserved keys.
func snapshot(name, version string, params pipeline.Params) map[string]any {
	kwargs := params.Clone()
	for k, v := range kwargs {
		if ref, ok := v.(pipeline.StepRef); ok {
			kwargs[k] = ref.Name
		}
	}
	kwargs[cachekey.ParamStepName] = name
	kwargs[cachekey.ParamVersion] = version
	return kwargs
}

func (e *Engine) cachedRecord(name, version string, params pipeline.Params, path string) runlog.Record {
	return runlog.Record{
		Version:   version,
		Date:      e.now().Format(dateLayout),
		StartTime: cachedTime,
		EndTime:   cachedTime,
		Kwargs:    snapshot(name, version, params),
		Status:    runlog.StatusCached,
		CachePath: path,
	}
}

func timedRecord(name, version string, params pipeline.Params, start, end time.Time, status runlog.Status, path string) runlog.Record {
	return runlog.Record{
		Version:   version,
		Date:      start.Format(dateLayout),
		StartTime: start.Format(timeLayout),
		EndTime:   end.Format(timeLayout),
		Kwargs:    snapshot(name, version, params),
		Status:    status,
		CachePath: path,
	}
}

func subRecord(r runlog.Record, sub string, i int) runlog.Record {
	r.Step = sub
	iteration := i
	r.Iteration = &iteration
	return r
}

// failedEntry records a step that failed before it could start.
func (e *Engine) failedEntry(entry pipeline.Entry) runlog.Entry {
	now := e.now()
	switch step := entry.Step.(type) {
	case *pipeline.Singleton:
		record := timedRecord(entry.Name, step.Version, step.Params, now, now, runlog.StatusFailed, "")
		return runlog.Entry{Name: entry.Name, Record: &record}
	case *pipeline.MapReduce:
		own, _ := step.OwnParams()
		record := timedRecord(entry.Name, step.Version, own, now, now, runlog.StatusFailed, "")
		return runlog.Entry{Name: entry.Name, Records: []runlog.Record{record}}
	default:
		record := timedRecord(entry.Name, "", nil, now, now, runlog.StatusFailed, "")
		return runlog.Entry{Name: entry.Name, Record: &record}
	}
}
