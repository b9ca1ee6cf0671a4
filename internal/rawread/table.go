// Package rawread loads hospital spreadsheet exports into an untyped table
// of strings. It does not interpret the layout; that is normalize's job.
package rawread

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Table is a raw export exactly as read: the header line followed by every
// other line, with cells kept verbatim.
type Table struct {
	Path  string
	Sheet string // xlsx only
	Rows  [][]string
	Width int // number of cells in the header line
}

// Options controls how a raw export is decoded.
type Options struct {
	Encoding string // "auto", "utf-8", "latin1" or "windows-1252"
	Comma    rune   // CSV delimiter; ',' when zero
	Sheet    string // xlsx sheet name; first sheet when empty
}

// Open reads a raw export, choosing the reader by file extension.
func Open(path string, opts Options) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt", ".tsv":
		return ReadCSV(path, opts)
	case ".xlsx":
		return ReadXLSX(path, opts)
	default:
		return nil, fmt.Errorf("unsupported export format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// NumRecords returns the number of lines after the header line.
func (t *Table) NumRecords() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows) - 1
}
