package parquetio

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/hmnreport/internal/model"
)

// Write stores records as a snapshot at path, replacing any existing file.
func Write(path string, records []model.Record) error {
	rows := make([]model.RecordRow, len(records))
	for i := range records {
		rows[i] = records[i].ToRow()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[model.RecordRow](f)
	if _, err := w.Write(rows); err != nil {
		return fmt.Errorf("write snapshot rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close snapshot writer: %w", err)
	}
	return f.Close()
}
