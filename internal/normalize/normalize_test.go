package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/gyeh/hmnreport/internal/model"
	"github.com/gyeh/hmnreport/internal/rawread"
)

// buildTable lays out rows of field values the way the exporter does: a header
// line with blank junk columns, filler lines up to SkipRows, then records.
func buildTable(t *testing.T, kind model.Kind, records ...map[model.Field]string) *rawread.Table {
	t.Helper()
	layout, ok := model.LayoutFor(kind)
	if !ok {
		t.Fatalf("no layout for %q", kind)
	}
	kept := layout.KeptColumns()

	header := make([]string, layout.Width)
	for i, f := range layout.Fields {
		header[kept[i]] = string(f)
	}
	rows := [][]string{header}
	for len(rows) < layout.SkipRows {
		filler := make([]string, layout.Width)
		filler[kept[0]] = "Reporte generado"
		rows = append(rows, filler)
	}
	for _, rec := range records {
		row := make([]string, layout.Width)
		for i, f := range layout.Fields {
			row[kept[i]] = rec[f]
		}
		rows = append(rows, row)
	}
	return &rawread.Table{Path: "test.csv", Rows: rows, Width: layout.Width}
}

func emergencyRow(adm, clinical, admin string) map[model.Field]string {
	return map[model.Field]string{
		model.FieldPatientID:         "30111222",
		model.FieldRecordID:          "H-1",
		model.FieldPatientName:       "PEREZ, JUAN",
		model.FieldSex:               "M",
		model.FieldAge:               "34",
		model.FieldAdmission:         adm,
		model.FieldService:           "GUARDIA",
		model.FieldSection:           "ADULTOS",
		model.FieldClinicalDischarge: clinical,
		model.FieldDischargeReason:   "ALTA MEDICA",
		model.FieldAdminDischarge:    admin,
		model.FieldStaff:             "DR. GOMEZ",
		model.FieldDiagnosis:         "DOLOR ABDOMINAL",
		model.FieldDiagnosisCode:     "r10.4",
		model.FieldDiagnosisDesc:     "Otros dolores abdominales",
	}
}

func TestNormalizeEmergencyDurations(t *testing.T) {
	tbl := buildTable(t, model.KindEmergency,
		emergencyRow("05/03/2021 08:00", "05/03/2021 10:30", "05/03/2021 11:00"))

	recs, err := Normalize(tbl, model.KindEmergency)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	r := recs[0]

	wantAdm := time.Date(2021, 3, 5, 8, 0, 0, 0, time.UTC)
	if !r.Admission.Equal(wantAdm) {
		t.Errorf("Admission = %v, want %v", r.Admission, wantAdm)
	}
	if r.SourceRow != 8 {
		t.Errorf("SourceRow = %d, want 8", r.SourceRow)
	}
	checkDur(t, "AdmissionToClinical", r.AdmissionToClinical, 150*time.Minute)
	checkDur(t, "ClinicalToAdmin", r.ClinicalToAdmin, 30*time.Minute)
	checkDur(t, "TotalStay", r.TotalStay, 3*time.Hour)

	if r.DiagnosisCode == nil || *r.DiagnosisCode != "R10.4" {
		t.Errorf("DiagnosisCode = %v, want R10.4", r.DiagnosisCode)
	}
	if r.DischargeReason == nil || *r.DischargeReason != "ALTA MEDICA" {
		t.Errorf("DischargeReason = %v, want ALTA MEDICA", r.DischargeReason)
	}
	if r.Staff != "DR. GOMEZ" || r.Service != "GUARDIA" || r.Section != "ADULTOS" {
		t.Errorf("categorical fields = %q/%q/%q", r.Staff, r.Service, r.Section)
	}
}

func checkDur(t *testing.T, name string, got *time.Duration, want time.Duration) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil, want %v", name, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}

func TestNormalizeNegativeDurationKept(t *testing.T) {
	tbl := buildTable(t, model.KindEmergency,
		emergencyRow("05/03/2021 12:00", "05/03/2021 10:00", "05/03/2021 13:00"))

	recs, err := Normalize(tbl, model.KindEmergency)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	checkDur(t, "AdmissionToClinical", recs[0].AdmissionToClinical, -2*time.Hour)
	checkDur(t, "ClinicalToAdmin", recs[0].ClinicalToAdmin, 3*time.Hour)
	checkDur(t, "TotalStay", recs[0].TotalStay, time.Hour)
}

func TestNormalizeMissingDischarge(t *testing.T) {
	row := emergencyRow("05/03/2021 08:00", "", "05/03/2021 11:00")
	row[model.FieldDischargeReason] = ""
	row[model.FieldDiagnosisCode] = "nan"
	recs, err := Normalize(buildTable(t, model.KindEmergency, row), model.KindEmergency)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	r := recs[0]
	if r.ClinicalDischarge != nil {
		t.Errorf("ClinicalDischarge = %v, want nil", r.ClinicalDischarge)
	}
	if r.AdmissionToClinical != nil || r.ClinicalToAdmin != nil {
		t.Error("durations touching the missing discharge should be nil")
	}
	checkDur(t, "TotalStay", r.TotalStay, 3*time.Hour)
	if r.DischargeReason != nil {
		t.Errorf("DischargeReason = %q, want nil", *r.DischargeReason)
	}
	if r.DiagnosisCode != nil {
		t.Errorf("DiagnosisCode = %q, want nil", *r.DiagnosisCode)
	}
}

func TestNormalizeSortsAndIndexes(t *testing.T) {
	tbl := buildTable(t, model.KindEmergency,
		emergencyRow("07/03/2021 08:00", "", ""),
		emergencyRow("05/03/2021 08:00", "", ""),
		emergencyRow("06/03/2021 08:00", "", ""),
		emergencyRow("05/03/2021 08:00", "", ""),
	)
	recs, err := Normalize(tbl, model.KindEmergency)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	wantRows := []int{9, 11, 10, 8}
	for i, r := range recs {
		if r.Index != i {
			t.Errorf("recs[%d].Index = %d", i, r.Index)
		}
		if r.SourceRow != wantRows[i] {
			t.Errorf("recs[%d].SourceRow = %d, want %d", i, r.SourceRow, wantRows[i])
		}
		if i > 0 && r.Admission.Before(recs[i-1].Admission) {
			t.Errorf("recs[%d] out of order", i)
		}
	}
}

func TestNormalizeSkipsBlankRows(t *testing.T) {
	tbl := buildTable(t, model.KindEmergency, emergencyRow("05/03/2021 08:00", "", ""))
	tbl.Rows = append(tbl.Rows, make([]string, tbl.Width), []string{"", " "})
	recs, err := Normalize(tbl, model.KindEmergency)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
}

func TestNormalizeOutpatientMergesDateAndHour(t *testing.T) {
	row := map[model.Field]string{
		model.FieldPatientID:       "20333444",
		model.FieldRecordID:        "A-9",
		model.FieldPatientName:     "LOPEZ, ANA",
		model.FieldSex:             "F",
		model.FieldAge:             "61",
		model.FieldAppointmentDate: "12/04/2022",
		model.FieldAppointmentTime: "9:15",
		model.FieldService:         "CLINICA MEDICA",
		model.FieldSection:         "CONSULTORIO 2",
		model.FieldProcedure:       "CONSULTA",
		model.FieldAgenda:          "DRA. RUIZ",
		model.FieldDiagnosisCode:   "I10",
	}
	recs, err := Normalize(buildTable(t, model.KindOutpatient, row), model.KindOutpatient)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	r := recs[0]
	want := time.Date(2022, 4, 12, 9, 15, 0, 0, time.UTC)
	if !r.Admission.Equal(want) {
		t.Errorf("Admission = %v, want %v", r.Admission, want)
	}
	if r.Staff != "DRA. RUIZ" {
		t.Errorf("Staff = %q, want agenda value", r.Staff)
	}
	if r.AgeBracket() != model.BracketSenior {
		t.Errorf("AgeBracket = %v, want senior", r.AgeBracket())
	}
	if r.TotalStay != nil {
		t.Error("outpatient records have no stay")
	}
}

func TestNormalizeSchemaMismatch(t *testing.T) {
	t.Run("width", func(t *testing.T) {
		tbl := buildTable(t, model.KindEmergency, emergencyRow("05/03/2021 08:00", "", ""))
		for i := range tbl.Rows {
			tbl.Rows[i] = tbl.Rows[i][:26]
		}
		tbl.Width = 26
		_, err := Normalize(tbl, model.KindEmergency)
		var sm *SchemaMismatchError
		if !errors.As(err, &sm) {
			t.Fatalf("err = %v, want SchemaMismatchError", err)
		}
		if sm.Expected != 27 || sm.Observed != 26 || sm.Column != -1 {
			t.Errorf("mismatch = %+v", sm)
		}
	})

	t.Run("shifted header", func(t *testing.T) {
		tbl := buildTable(t, model.KindEmergency, emergencyRow("05/03/2021 08:00", "", ""))
		tbl.Rows[0][7] = "SERVICIO"
		_, err := Normalize(tbl, model.KindEmergency)
		var sm *SchemaMismatchError
		if !errors.As(err, &sm) {
			t.Fatalf("err = %v, want SchemaMismatchError", err)
		}
		if sm.Column != 7 || sm.Row != 1 {
			t.Errorf("mismatch at line %d column %d, want line 1 column 7", sm.Row, sm.Column)
		}
	})

	t.Run("wide row", func(t *testing.T) {
		tbl := buildTable(t, model.KindEmergency, emergencyRow("05/03/2021 08:00", "", ""))
		tbl.Rows[7] = append(tbl.Rows[7], "extra")
		_, err := Normalize(tbl, model.KindEmergency)
		var sm *SchemaMismatchError
		if !errors.As(err, &sm) {
			t.Fatalf("err = %v, want SchemaMismatchError", err)
		}
		if sm.Row != 8 {
			t.Errorf("Row = %d, want 8", sm.Row)
		}
	})

	t.Run("short row", func(t *testing.T) {
		row := emergencyRow("05/03/2021 08:00", "", "")
		row[model.FieldDischargeReason] = ""
		row[model.FieldStaff] = ""
		tbl := buildTable(t, model.KindEmergency, row)
		data := tbl.Rows[7]
		tbl.Rows[7] = append(append([]string{}, data[:7]...), data[8:]...)
		_, err := Normalize(tbl, model.KindEmergency)
		var sm *SchemaMismatchError
		if !errors.As(err, &sm) {
			t.Fatalf("err = %v, want SchemaMismatchError", err)
		}
		if sm.Row != 8 || sm.Expected != 27 || sm.Observed != 26 {
			t.Errorf("mismatch = %+v", sm)
		}
	})

	t.Run("value in junk column", func(t *testing.T) {
		tbl := buildTable(t, model.KindEmergency, emergencyRow("05/03/2021 08:00", "", ""))
		tbl.Rows[7][7] = "GUARDIA"
		_, err := Normalize(tbl, model.KindEmergency)
		var sm *SchemaMismatchError
		if !errors.As(err, &sm) {
			t.Fatalf("err = %v, want SchemaMismatchError", err)
		}
		if sm.Row != 8 || sm.Column != 7 {
			t.Errorf("mismatch at line %d column %d, want line 8 column 7", sm.Row, sm.Column)
		}
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Normalize(&rawread.Table{}, model.KindLab)
		var sm *SchemaMismatchError
		if !errors.As(err, &sm) {
			t.Fatalf("err = %v, want SchemaMismatchError", err)
		}
	})
}

func TestNormalizeDateParseError(t *testing.T) {
	tbl := buildTable(t, model.KindEmergency,
		emergencyRow("05/03/2021 08:00", "", ""),
		emergencyRow("31/02/2021 08:00", "", ""))
	_, err := Normalize(tbl, model.KindEmergency)
	var de *DateParseError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want DateParseError", err)
	}
	if de.Row != 9 || de.Field != model.FieldAdmission {
		t.Errorf("DateParseError = %+v", de)
	}

	tbl = buildTable(t, model.KindEmergency, emergencyRow("05/03/2021 08:00", "ayer", ""))
	_, err = Normalize(tbl, model.KindEmergency)
	if !errors.As(err, &de) || de.Field != model.FieldClinicalDischarge {
		t.Fatalf("err = %v, want DateParseError on %s", err, model.FieldClinicalDischarge)
	}
}

func TestNormalizeInvalidAge(t *testing.T) {
	for _, v := range []string{"", "-3", "treinta", "12.5"} {
		row := emergencyRow("05/03/2021 08:00", "", "")
		row[model.FieldAge] = v
		_, err := Normalize(buildTable(t, model.KindEmergency, row), model.KindEmergency)
		var ae *InvalidAgeError
		if !errors.As(err, &ae) {
			t.Errorf("age %q: err = %v, want InvalidAgeError", v, err)
		}
	}
}

func TestMerge(t *testing.T) {
	a, err := Normalize(buildTable(t, model.KindEmergency,
		emergencyRow("05/03/2021 08:00", "05/03/2021 09:00", ""),
		emergencyRow("07/03/2021 08:00", "", "")), model.KindEmergency)
	if err != nil {
		t.Fatalf("Normalize a: %v", err)
	}
	b, err := Normalize(buildTable(t, model.KindEmergency,
		emergencyRow("06/03/2021 08:00", "06/03/2021 10:00", "")), model.KindEmergency)
	if err != nil {
		t.Fatalf("Normalize b: %v", err)
	}

	merged, err := Merge(a, b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(merged) != 3 {
		t.Fatalf("len = %d, want 3", len(merged))
	}
	if merged[1].Admission.Day() != 6 || merged[1].Index != 1 {
		t.Errorf("merged[1] = day %d index %d", merged[1].Admission.Day(), merged[1].Index)
	}

	// Durations survive merging untouched.
	var sum time.Duration
	for _, r := range merged {
		if r.AdmissionToClinical != nil {
			sum += *r.AdmissionToClinical
		}
	}
	if sum != 3*time.Hour {
		t.Errorf("duration sum = %v, want 3h", sum)
	}
	if a[1].Index != 1 {
		t.Error("Merge modified its input")
	}

	a[0].Kind = model.KindLab
	if _, err := Merge(a, b); err == nil {
		t.Error("expected error merging mixed kinds")
	}
}

func TestFileFixture(t *testing.T) {
	records, err := File("../../testdata/emergencias.csv", model.KindEmergency, rawread.Options{Encoding: "auto"})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if len(records) != 12 {
		t.Fatalf("got %d records, want 12", len(records))
	}

	_, err = File("../../testdata/emergencias.csv", model.KindOutpatient, rawread.Options{})
	var sm *SchemaMismatchError
	if !errors.As(err, &sm) {
		t.Fatalf("expected SchemaMismatchError, got %v", err)
	}
}

func TestDurationsAddUp(t *testing.T) {
	records, err := File("../../testdata/emergencias.csv", model.KindEmergency, rawread.Options{})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	checked := 0
	for _, r := range records {
		if r.ClinicalDischarge == nil || r.AdminDischarge == nil {
			continue
		}
		checked++
		if *r.TotalStay != *r.AdmissionToClinical+*r.ClinicalToAdmin {
			t.Errorf("line %d: total %s != %s + %s", r.SourceRow, *r.TotalStay, *r.AdmissionToClinical, *r.ClinicalToAdmin)
		}
	}
	if checked == 0 {
		t.Fatal("fixture has no fully discharged records")
	}
}
