package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx/v3"
)

const (
	sheetSummary  = "Resumen"
	maxSheetName  = 31
	percentFormat = "0.00"
)

var sheetNameCleaner = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// Workbook lays the report out as a workbook: a summary sheet followed by
// one sheet per table.
func Workbook(r *Report) (*xlsx.File, error) {
	wb := xlsx.NewFile()

	if err := addSummarySheet(wb, r); err != nil {
		return nil, err
	}
	used := map[string]bool{strings.ToLower(sheetSummary): true}
	for _, t := range r.Tables {
		sh, err := wb.AddSheet(uniqueSheetName(t.Title, used))
		if err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", t.Title, err)
		}
		addTable(sh, t)
	}

	for _, sh := range wb.Sheets {
		sh.SetColWidth(1, 1, 40)
		for i := 2; i <= sh.MaxCol; i++ {
			_ = sh.SetColAutoWidth(i, xlsx.DefaultAutoWidth)
		}
	}
	return wb, nil
}

// WriteXLSX saves the report workbook at path.
func WriteXLSX(path string, r *Report) error {
	wb, err := Workbook(r)
	if err != nil {
		return err
	}
	if err := wb.Save(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// EncodeXLSX streams the report workbook to w.
func EncodeXLSX(w io.Writer, r *Report) error {
	wb, err := Workbook(r)
	if err != nil {
		return err
	}
	if err := wb.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func addSummarySheet(wb *xlsx.File, r *Report) error {
	sh, err := wb.AddSheet(sheetSummary)
	if err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}

	row := sh.AddRow()
	row.AddCell().SetValue("Reporte")
	row.AddCell().SetValue(string(r.Kind))
	row = sh.AddRow()
	row.AddCell().SetValue("Registros")
	row.AddCell().SetInt(r.Records)
	if r.Period != nil {
		row = sh.AddRow()
		row.AddCell().SetValue("Desde")
		row.AddCell().SetValue(r.Period.From.Format(dateLayout))
		row = sh.AddRow()
		row.AddCell().SetValue("Hasta")
		row.AddCell().SetValue(r.Period.To.Format(dateLayout))
	}
	row = sh.AddRow()
	row.AddCell().SetValue("Sin codificar (CIE10)")
	row.AddCell().SetInt(r.Uncoded)

	if len(r.Partitions) > 0 {
		sh.AddRow()
		row = sh.AddRow()
		row.AddCell().SetValue(r.Partition.Title())
		row.AddCell().SetValue("CANTIDAD")
		for _, p := range r.Partitions {
			row = sh.AddRow()
			row.AddCell().SetValue(p.Label)
			row.AddCell().SetInt(p.Records)
		}
	}

	if len(r.Durations) > 0 {
		sh.AddRow()
		row = sh.AddRow()
		row.AddCell().SetValue("Tiempos promedio")
		row.AddCell().SetValue("Partición")
		row.AddCell().SetValue("Promedio")
		for _, d := range r.Durations {
			row = sh.AddRow()
			row.AddCell().SetValue(d.Label)
			row.AddCell().SetValue(d.Partition)
			row.AddCell().SetValue(FormatDuration(d.Mean))
		}
	}
	return nil
}

func addTable(sh *xlsx.Sheet, t Table) {
	sh.AddRow().AddCell().SetValue(t.Title)
	sh.AddRow()

	row := sh.AddRow()
	row.AddCell().SetValue(t.Ranked.Dimension.Title())
	row.AddCell().SetValue("CANTIDAD")
	row.AddCell().SetValue("% TOTAL")
	for _, e := range t.Ranked.Entries {
		row = sh.AddRow()
		row.AddCell().SetValue(e.Label)
		row.AddCell().SetInt(e.Count)
		row.AddCell().SetFloatWithFormat(e.Percent, percentFormat)
	}
	if t.Ranked.Missing > 0 {
		row = sh.AddRow()
		row.AddCell().SetValue("(sin valor)")
		row.AddCell().SetInt(t.Ranked.Missing)
	}
}

// uniqueSheetName makes a valid, unused sheet name from a table title.
// Sheet names compare case-insensitively.
func uniqueSheetName(title string, used map[string]bool) string {
	base := strings.TrimSpace(sheetNameCleaner.Replace(title))
	if base == "" {
		base = "Tabla"
	}
	name := clip(base, maxSheetName)
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" %d", i)
		name = clip(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

// clip shortens s to at most n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
