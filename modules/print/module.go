package print

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/specialistvlad/memogrid/internal/cachekey"
	"github.com/specialistvlad/memogrid/internal/ctxlog"
	"github.com/specialistvlad/memogrid/internal/pipeline"
	"github.com/specialistvlad/memogrid/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Out receives the printed parameters. Defaults to os.Stdout.
	Out io.Writer
}

// OnRunPrint returns the 'print' handler. It writes every declared
// parameter, with references already resolved, and returns no result, so
// print steps always run.
func OnRunPrint(out io.Writer) pipeline.StepFunc {
	return func(ctx context.Context, params pipeline.Params) (any, error) {
		ctxlog.FromContext(ctx).Info("Printing input", "step", params.String(cachekey.ParamStepName))

		keys := make([]string, 0, len(params))
		for k := range params {
			if k == cachekey.ParamStepName || k == cachekey.ParamVersion {
				continue
			}
			keys = append(keys, k)
		}
		if len(keys) == 0 {
			fmt.Fprintln(out, "      (null)")
			return nil, nil
		}
		sort.Strings(keys)

		for _, k := range keys {
			fmt.Fprintf(out, "      %s = %v\n", k, params[k])
		}
		return nil, nil
	}
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	r.RegisterHandler("print", OnRunPrint(out))
}
