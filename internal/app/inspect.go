package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/specialistvlad/memogrid/internal/ctxlog"
	"github.com/specialistvlad/memogrid/internal/engine"
	"github.com/specialistvlad/memogrid/internal/runlog"
)

// Inspect prints the latest run of the configured experiment: one line per
// record with its status, cache path and, when cached bytes exist, the
// stored value.
func (a *App) Inspect(ctx context.Context) error {
	logger := ctxlog.FromContext(ctxlog.WithLogger(ctx, a.logger))

	path, entries, err := a.runs.Latest(a.config.Experiment)
	if err != nil {
		return err
	}
	logger.Debug("Inspecting run.", "path", path, "entries", len(entries))

	fmt.Fprintf(a.outW, "run: %s\n", path)
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tVERSION\tSTATUS\tCACHE PATH\tVALUE")
	for _, entry := range entries {
		if entry.Record != nil {
			a.inspectRecord(tw, entry.Name, *entry.Record)
			continue
		}
		for _, r := range entry.Records {
			name := entry.Name
			if r.Iteration != nil {
				name = fmt.Sprintf("%s[%d].%s", entry.Name, *r.Iteration, r.Step)
			}
			a.inspectRecord(tw, name, r)
		}
	}
	return tw.Flush()
}

func (a *App) inspectRecord(tw *tabwriter.Writer, name string, r runlog.Record) {
	value := "-"
	if r.HasArtifact() {
		v, err := engine.LoadArtifact(a.store, r)
		if err != nil {
			value = fmt.Sprintf("<%v>", err)
		} else {
			value = fmt.Sprintf("%v", v)
		}
	}
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", name, r.Version, r.Status, r.CachePath, value)
}
