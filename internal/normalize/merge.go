package normalize

import (
	"fmt"

	"github.com/gyeh/hmnreport/internal/model"
)

// Merge concatenates several normalized sets of the same kind into one
// canonical sequence: re-sorted by admission and re-indexed. Inputs are not
// modified. Mixing kinds is an error.
func Merge(sets ...[]model.Record) ([]model.Record, error) {
	var (
		kind  model.Kind
		total int
	)
	for _, s := range sets {
		total += len(s)
	}
	out := make([]model.Record, 0, total)
	for _, s := range sets {
		for _, r := range s {
			if kind == "" {
				kind = r.Kind
			} else if r.Kind != kind {
				return nil, fmt.Errorf("merge records: mixed kinds %q and %q", kind, r.Kind)
			}
			out = append(out, r)
		}
	}
	sortCanonical(out)
	return out, nil
}
