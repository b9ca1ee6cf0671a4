// Package source resolves an input path to canonical records: raw exports are
// read and normalized, parquet snapshots are decoded as-is.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gyeh/hmnreport/internal/model"
	"github.com/gyeh/hmnreport/internal/normalize"
	"github.com/gyeh/hmnreport/internal/parquetio"
	"github.com/gyeh/hmnreport/internal/rawread"
)

// ErrKindMismatch is returned when a snapshot holds a different kind than
// the one requested.
var ErrKindMismatch = errors.New("snapshot kind does not match")

// IsSnapshot reports whether path names a parquet snapshot.
func IsSnapshot(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".parquet")
}

// Load returns the records held in path.
func Load(path string, kind model.Kind, opts rawread.Options) ([]model.Record, error) {
	if !IsSnapshot(path) {
		return normalize.File(path, kind, opts)
	}
	records, err := parquetio.ReadAll(path)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 && records[0].Kind != kind {
		return nil, fmt.Errorf("%s holds %s records, want %s: %w", path, records[0].Kind, kind, ErrKindMismatch)
	}
	return records, nil
}

// LoadAll loads several inputs of one kind concurrently and merges them into
// a single canonically ordered set.
func LoadAll(paths []string, kind model.Kind, opts rawread.Options) ([]model.Record, error) {
	sets := make([][]model.Record, len(paths))
	var g errgroup.Group
	g.SetLimit(4)
	for i, p := range paths {
		g.Go(func() error {
			records, err := Load(p, kind, opts)
			if err != nil {
				return err
			}
			sets[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(sets) == 1 {
		return sets[0], nil
	}
	return normalize.Merge(sets...)
}
