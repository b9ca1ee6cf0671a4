// mkexport writes a synthetic raw export in the exact layout the hospital
// information system produces for a kind, for fixtures and load testing.
// Usage: go run ./cmd/mkexport --kind emergency --rows 500 --out testdata/guardia.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/gyeh/hmnreport/internal/model"
)

var (
	sections   = []string{"ADULTOS", "PEDIATRÍA", "OBSTETRICIA", "TRAUMATOLOGÍA"}
	services   = []string{"CLÍNICA MÉDICA", "CIRUGÍA GENERAL", "PEDIATRÍA", "TOCOGINECOLOGÍA"}
	staff      = []string{"GARCÍA, ANA", "PÉREZ, JUAN", "LÓPEZ, MARÍA", "SOSA, PABLO", "DÍAZ, LUCÍA"}
	reasons    = []string{"ALTA MÉDICA", "DERIVACIÓN", "RETIRO VOLUNTARIO", "INTERNACIÓN"}
	procedures = []string{"CONSULTA", "CONTROL", "HEMOGRAMA", "ECOGRAFÍA", "SUTURA"}
	codes      = []struct{ code, desc string }{
		{"J06.9", "INFECCIÓN AGUDA DE LAS VÍAS RESPIRATORIAS SUPERIORES"},
		{"R10.4", "OTROS DOLORES ABDOMINALES Y LOS NO ESPECIFICADOS"},
		{"S09.9", "TRAUMATISMO DE LA CABEZA, NO ESPECIFICADO"},
		{"I10", "HIPERTENSIÓN ESENCIAL (PRIMARIA)"},
		{"", ""},
	}
)

func main() {
	kindArg := flag.String("kind", "emergency", "record kind")
	out := flag.String("out", "export.csv", "output path (.csv or .xlsx)")
	rows := flag.Int("rows", 200, "records to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	enc := flag.String("encoding", "windows-1252", "csv encoding: utf-8 or windows-1252")
	start := flag.String("start", "2021-03-01", "first admission day (YYYY-MM-DD)")
	flag.Parse()

	kind, ok := model.ParseKind(*kindArg)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown kind %q (want one of %s)\n", *kindArg, strings.Join(model.KindNames(), ", "))
		os.Exit(1)
	}
	day, err := time.Parse("2006-01-02", *start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse --start: %v\n", err)
		os.Exit(1)
	}
	layout, _ := model.LayoutFor(kind)

	g := &generator{rng: rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)), start: day}
	table := g.table(layout, *rows)

	switch strings.ToLower(filepath.Ext(*out)) {
	case ".xlsx":
		err = writeXLSX(*out, table)
	default:
		err = writeCSV(*out, *enc, table)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d %s records (%d columns) to %s\n", *rows, kind, layout.Width, *out)
}

type generator struct {
	rng   *rand.Rand
	start time.Time
}

func (g *generator) pick(vals []string) string {
	return vals[g.rng.IntN(len(vals))]
}

// table lays the generated records out at the layout's kept positions.
func (g *generator) table(layout model.Layout, n int) [][]string {
	kept := layout.KeptColumns()
	header := make([]string, layout.Width)
	for i, f := range layout.Fields {
		header[kept[i]] = string(f)
	}
	out := [][]string{header}
	for len(out) < layout.SkipRows {
		filler := make([]string, layout.Width)
		filler[kept[0]] = "Hospital Municipal"
		filler[kept[1]] = "Reporte generado " + time.Now().Format("02/01/2006")
		out = append(out, filler)
	}
	for i := 0; i < n; i++ {
		vals := g.record(i)
		row := make([]string, layout.Width)
		for j, f := range layout.Fields {
			row[kept[j]] = vals[f]
		}
		out = append(out, row)
	}
	return out
}

func (g *generator) record(i int) map[model.Field]string {
	adm := g.start.Add(time.Duration(g.rng.IntN(30*24*60)) * time.Minute)
	clin := adm.Add(time.Duration(10+g.rng.IntN(6*60)) * time.Minute)
	admin := clin.Add(time.Duration(g.rng.IntN(90)) * time.Minute)
	code := codes[g.rng.IntN(len(codes))]
	sex := "F"
	if g.rng.IntN(2) == 0 {
		sex = "M"
	}

	vals := map[model.Field]string{
		model.FieldPatientID:         strconv.Itoa(20000000 + g.rng.IntN(30000000)),
		model.FieldRecordID:          strconv.Itoa(100000 + i),
		model.FieldPatientName:       fmt.Sprintf("PACIENTE %04d", i),
		model.FieldSex:               sex,
		model.FieldAge:               strconv.Itoa(g.rng.IntN(95)),
		model.FieldAdmission:         adm.Format("02/01/2006 15:04"),
		model.FieldAppointmentDate:   adm.Format("02/01/2006"),
		model.FieldAppointmentTime:   adm.Format("15:04"),
		model.FieldService:           g.pick(services),
		model.FieldSection:           g.pick(sections),
		model.FieldClinicalDischarge: clin.Format("02/01/2006 15:04"),
		model.FieldDischargeReason:   g.pick(reasons),
		model.FieldAdminDischarge:    admin.Format("02/01/2006 15:04"),
		model.FieldStaff:             g.pick(staff),
		model.FieldAgenda:            g.pick(staff),
		model.FieldProcedure:         g.pick(procedures),
		model.FieldDiagnosis:         code.desc,
		model.FieldDiagnosisCode:     code.code,
		model.FieldDiagnosisDesc:     code.desc,
	}
	// Roughly one in twenty patients leaves before clinical discharge.
	if g.rng.IntN(20) == 0 {
		vals[model.FieldClinicalDischarge] = ""
	}
	return vals
}

func writeCSV(path, enc string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.WriteCloser
	switch strings.ToLower(enc) {
	case "utf-8", "utf8":
		w = f
	case "windows-1252", "cp1252", "latin1":
		w = transform.NewWriter(f, charmap.Windows1252.NewEncoder())
	default:
		return fmt.Errorf("unsupported encoding %q", enc)
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	// Closing the encoder flushes it; f itself is closed by the defer.
	if tw, ok := w.(*transform.Writer); ok {
		return tw.Close()
	}
	return nil
}

func writeXLSX(path string, rows [][]string) error {
	wb := xlsx.NewFile()
	sh, err := wb.AddSheet("Reporte")
	if err != nil {
		return err
	}
	// Blank cells are written too so the sheet keeps the layout's width.
	for _, row := range rows {
		xr := sh.AddRow()
		for _, v := range row {
			xr.AddCell().SetString(v)
		}
	}
	return wb.Save(path)
}
