package parquetio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/gyeh/hmnreport/internal/model"
)

// ErrSchema marks a parquet file that is not a record snapshot.
var ErrSchema = errors.New("not a record snapshot")

// ValidateSchema checks that the Parquet schema contains every column a
// snapshot needs to be read back.
func ValidateSchema(schema *parquet.Schema) error {
	columns := make(map[string]bool)
	for _, field := range schema.Fields() {
		columns[strings.ToLower(field.Name())] = true
	}

	var missing []string
	for _, col := range model.SnapshotColumns() {
		if !columns[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required columns: %s", ErrSchema, strings.Join(missing, ", "))
	}
	return nil
}
