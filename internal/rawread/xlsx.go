package rawread

import (
	"fmt"

	"github.com/tealeg/xlsx/v3"
)

// dayFirstLayout is how date cells are rendered so that xlsx and csv exports
// reach the normalizer in the same textual form.
const dayFirstLayout = "02/01/2006 15:04:05"

// ReadXLSX reads one sheet of a workbook export. Every row is padded to the
// sheet's column count.
func ReadXLSX(path string, opts Options) (*Table, error) {
	wb, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("read %s: workbook has no sheets", path)
	}

	sh := wb.Sheets[0]
	if opts.Sheet != "" {
		named, ok := wb.Sheet[opts.Sheet]
		if !ok {
			return nil, fmt.Errorf("read %s: sheet %q not found", path, opts.Sheet)
		}
		sh = named
	}

	width := sh.MaxCol
	rows := make([][]string, 0, sh.MaxRow)
	err = sh.ForEachRow(func(r *xlsx.Row) error {
		rec := make([]string, width)
		for c := 0; c < width; c++ {
			rec[c] = cellText(r.GetCell(c), wb.Date1904)
		}
		rows = append(rows, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read %s sheet %q: %w", path, sh.Name, err)
	}

	return &Table{Path: path, Sheet: sh.Name, Rows: rows, Width: width}, nil
}

func cellText(c *xlsx.Cell, date1904 bool) string {
	if c == nil {
		return ""
	}
	if c.IsTime() {
		if t, err := c.GetTime(date1904); err == nil {
			return t.Format(dayFirstLayout)
		}
	}
	s, err := c.FormattedValue()
	if err != nil {
		return c.Value
	}
	return s
}
