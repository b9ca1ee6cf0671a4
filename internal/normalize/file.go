package normalize

import (
	"fmt"

	"github.com/gyeh/hmnreport/internal/model"
	"github.com/gyeh/hmnreport/internal/rawread"
)

// File reads and normalizes one raw export.
func File(path string, kind model.Kind, opts rawread.Options) ([]model.Record, error) {
	t, err := rawread.Open(path, opts)
	if err != nil {
		return nil, err
	}
	records, err := Normalize(t, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
