package registry

import (
	"fmt"
	"sort"
	"strings"
)

// Validate checks that every handler and reducer name a pipeline refers to
// is registered, and reports all missing names at once.
func (r *Registry) Validate(handlers, reducers []string) error {
	var errs []string

	for _, name := range unique(handlers) {
		if _, ok := r.handlers[name]; !ok {
			errs = append(errs, fmt.Sprintf("step handler '%s' is not registered", name))
		}
	}
	for _, name := range unique(reducers) {
		if _, ok := r.reducers[name]; !ok {
			errs = append(errs, fmt.Sprintf("reducer '%s' is not registered", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: registry validation failed:\n- %s", ErrUnknownHandler, strings.Join(errs, "\n- "))
	}

	return nil
}

func unique(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
