package rawread

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tealeg/xlsx/v3"
	"golang.org/x/text/encoding/charmap"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadCSVUTF8WithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(",DNI,SECCIÓN\n,1,Pediatría\n,2,\"CLÍNICA, MÉDICA\"\n")...)
	tbl, err := Open(writeFile(t, "export.csv", data), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if tbl.Width != 3 {
		t.Errorf("Width = %d, want 3", tbl.Width)
	}
	if tbl.Rows[0][0] != "" {
		t.Errorf("BOM leaked into first cell: %q", tbl.Rows[0][0])
	}
	if got := tbl.Rows[2][2]; got != "CLÍNICA, MÉDICA" {
		t.Errorf("quoted cell = %q", got)
	}
	if tbl.NumRecords() != 2 {
		t.Errorf("NumRecords = %d, want 2", tbl.NumRecords())
	}
}

func TestReadCSVLatin1(t *testing.T) {
	enc, err := charmap.Windows1252.NewEncoder().String("NHC;SECCIÓN\n7;Pediatría\n")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := writeFile(t, "export.csv", []byte(enc))

	for _, name := range []string{"auto", "windows-1252", "latin1"} {
		tbl, err := ReadCSV(path, Options{Encoding: name, Comma: ';'})
		if err != nil {
			t.Fatalf("%s: ReadCSV: %v", name, err)
		}
		if got := tbl.Rows[1][1]; got != "Pediatría" {
			t.Errorf("%s: cell = %q, want Pediatría", name, got)
		}
		if got := tbl.Rows[0][1]; got != "SECCIÓN" {
			t.Errorf("%s: header = %q", name, got)
		}
	}

	if _, err := ReadCSV(path, Options{Encoding: "ebcdic"}); err == nil {
		t.Error("expected error for unsupported encoding")
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	tbl, err := ReadCSV(writeFile(t, "r.csv", []byte("a,b,c\n1\n1,2,3,4\n")), Options{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Width != 3 || len(tbl.Rows[1]) != 1 || len(tbl.Rows[2]) != 4 {
		t.Errorf("ragged rows not preserved: %v", tbl.Rows)
	}
}

func TestReadXLSX(t *testing.T) {
	f := xlsx.NewFile()
	sh, err := f.AddSheet("Hoja1")
	if err != nil {
		t.Fatalf("AddSheet: %v", err)
	}
	header := sh.AddRow()
	header.AddCell()
	header.AddCell().SetValue("DNI")
	header.AddCell().SetValue("EDAD")
	row := sh.AddRow()
	row.AddCell()
	row.AddCell().SetValue("30111222")
	row.AddCell().SetInt(34)

	path := filepath.Join(t.TempDir(), "export.xlsx")
	if err := f.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tbl, err := Open(path, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if tbl.Sheet != "Hoja1" || tbl.Width != 3 {
		t.Errorf("sheet %q width %d", tbl.Sheet, tbl.Width)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	if tbl.Rows[1][1] != "30111222" || tbl.Rows[1][2] != "34" {
		t.Errorf("row = %q", tbl.Rows[1])
	}

	if _, err := ReadXLSX(path, Options{Sheet: "missing"}); err == nil {
		t.Error("expected error for missing sheet")
	}
}

func TestOpenRejectsUnknownExtension(t *testing.T) {
	if _, err := Open(writeFile(t, "export.ods", []byte("x")), Options{}); err == nil {
		t.Error("expected error for .ods")
	}
}
