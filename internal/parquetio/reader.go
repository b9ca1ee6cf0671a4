// Package parquetio stores canonical record sets as Parquet snapshots so that
// reports can be rebuilt without re-normalizing the raw export.
package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/hmnreport/internal/model"
)

// Reader wraps a parquet GenericReader for streaming snapshot rows.
type Reader struct {
	file   *os.File
	schema *parquet.Schema
	reader *parquet.GenericReader[model.RecordRow]
}

// Open opens a snapshot file and returns a streaming Reader. Files that lack
// snapshot columns are rejected before any row is decoded.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat parquet file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	if err := ValidateSchema(pf.Schema()); err != nil {
		f.Close()
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}

	r := parquet.NewGenericReader[model.RecordRow](pf)
	return &Reader{file: f, schema: pf.Schema(), reader: r}, nil
}

// NumRows returns the total number of rows in the snapshot.
func (r *Reader) NumRows() int64 {
	return r.reader.NumRows()
}

// Read reads up to len(rows) rows into the provided slice.
// Returns the number of rows read and io.EOF when done.
func (r *Reader) Read(rows []model.RecordRow) (int, error) {
	n, err := r.reader.Read(rows)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("read parquet rows: %w", err)
	}
	return n, err
}

// Schema returns the schema stored in the file.
func (r *Reader) Schema() *parquet.Schema {
	return r.schema
}

// Close releases all resources.
func (r *Reader) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// ReadAll loads a whole snapshot back into canonical records. The snapshot
// must hold a single kind; records come back in their stored order.
func ReadAll(path string) ([]model.Record, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	records := make([]model.Record, 0, r.NumRows())
	buf := make([]model.RecordRow, 1024)
	for {
		n, readErr := r.Read(buf)
		for i := 0; i < n; i++ {
			records = append(records, buf[i].ToRecord())
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, readErr
		}
	}

	for i := range records {
		if records[i].Kind != records[0].Kind {
			return nil, fmt.Errorf("snapshot %s: mixed kinds %q and %q", path, records[0].Kind, records[i].Kind)
		}
		if records[i].Index != i {
			return nil, fmt.Errorf("snapshot %s: row %d has index %d", path, i, records[i].Index)
		}
	}
	return records, nil
}
