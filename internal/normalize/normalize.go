package normalize

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gyeh/hmnreport/internal/model"
	"github.com/gyeh/hmnreport/internal/rawread"
)

// Normalize converts a raw export of the given kind into canonical records.
// The table shape is validated against the kind's layout before any column
// is assigned a name. The first malformed row fails the whole call; rows are
// never silently dropped, except fully blank padding lines. Every data row
// must be exactly as wide as the header with its junk columns blank.
//
// The result is sorted by admission instant (stable on source order) and
// carries a contiguous zero-based Index.
func Normalize(t *rawread.Table, kind model.Kind) ([]model.Record, error) {
	layout, ok := model.LayoutFor(kind)
	if !ok {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	if err := ValidateShape(t, layout); err != nil {
		return nil, err
	}

	kept := layout.KeptColumns()
	records := make([]model.Record, 0, max(len(t.Rows)-layout.SkipRows, 0))
	for i := layout.SkipRows; i < len(t.Rows); i++ {
		row := t.Rows[i]
		line := i + 1
		if isBlankRow(row) {
			continue
		}
		if err := validateRow(row, layout, line); err != nil {
			return nil, err
		}

		vals := make(map[model.Field]string, len(layout.Fields))
		for j, f := range layout.Fields {
			vals[f] = row[kept[j]]
		}

		rec, err := toRecord(layout, vals, line)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	sortCanonical(records)
	return records, nil
}

// ValidateShape checks the header line against the layout: the width must
// match exactly and every junk column must have a blank header cell. A shifted
// or extra column fails here rather than silently misaligning field names.
func ValidateShape(t *rawread.Table, layout model.Layout) error {
	if len(t.Rows) == 0 || t.Width != layout.Width {
		return &SchemaMismatchError{
			Kind: layout.Kind, Row: 1, Column: -1,
			Expected: layout.Width, Observed: t.Width,
		}
	}
	header := t.Rows[0]
	for _, c := range layout.Drop {
		if c < len(header) && strings.TrimSpace(header[c]) != "" {
			return &SchemaMismatchError{
				Kind: layout.Kind, Row: 1, Column: c,
				Expected: layout.Width, Observed: t.Width,
				Detail: fmt.Sprintf("expected a blank header in junk column, found %q", header[c]),
			}
		}
	}
	return nil
}

// validateRow rejects a data row that is not exactly as wide as the layout
// or that carries a value in a junk column. Either means a column was
// inserted or lost and the positional assignment would be shifted.
func validateRow(row []string, layout model.Layout, line int) error {
	if len(row) != layout.Width {
		return &SchemaMismatchError{
			Kind: layout.Kind, Row: line, Column: -1,
			Expected: layout.Width, Observed: len(row),
		}
	}
	for _, c := range layout.Drop {
		if strings.TrimSpace(row[c]) != "" {
			return &SchemaMismatchError{
				Kind: layout.Kind, Row: line, Column: c,
				Expected: layout.Width, Observed: len(row),
				Detail: fmt.Sprintf("expected a blank junk column, found %q", row[c]),
			}
		}
	}
	return nil
}

func toRecord(layout model.Layout, vals map[model.Field]string, line int) (*model.Record, error) {
	age, ok := ParseAge(vals[model.FieldAge])
	if !ok {
		return nil, &InvalidAgeError{Row: line, Value: vals[model.FieldAge]}
	}

	rec := &model.Record{
		SourceRow:     line,
		Kind:          layout.Kind,
		PatientID:     CleanLabel(vals[model.FieldPatientID]),
		RecordID:      CleanLabel(vals[model.FieldRecordID]),
		PatientName:   CleanLabel(vals[model.FieldPatientName]),
		Sex:           CleanLabel(vals[model.FieldSex]),
		Age:           age,
		Service:       CleanLabel(vals[model.FieldService]),
		Section:       CleanLabel(vals[model.FieldSection]),
		Procedure:     CleanLabel(vals[model.FieldProcedure]),
		Diagnosis:     CleanLabel(vals[model.FieldDiagnosis]),
		DiagnosisCode: DiagnosisCode(vals[model.FieldDiagnosisCode]),
		DiagnosisDesc: CleanLabel(vals[model.FieldDiagnosisDesc]),
	}
	if layout.Has(model.FieldAgenda) {
		rec.Staff = CleanLabel(vals[model.FieldAgenda])
	} else {
		rec.Staff = CleanLabel(vals[model.FieldStaff])
	}
	if layout.Has(model.FieldDischargeReason) {
		rec.DischargeReason = OptLabel(vals[model.FieldDischargeReason])
	}

	// Appointments arrive as separate date and hour cells.
	admField := model.FieldAdmission
	admRaw := vals[model.FieldAdmission]
	if layout.Has(model.FieldAppointmentDate) {
		admField = model.FieldAppointmentDate
		admRaw = strings.TrimSpace(vals[model.FieldAppointmentDate] + " " + vals[model.FieldAppointmentTime])
	}
	adm, ok := ParseTimestamp(admRaw)
	if !ok {
		return nil, &DateParseError{Row: line, Field: admField, Value: admRaw}
	}
	rec.Admission = adm

	var err error
	if layout.Has(model.FieldClinicalDischarge) {
		if rec.ClinicalDischarge, err = optionalTimestamp(vals, model.FieldClinicalDischarge, line); err != nil {
			return nil, err
		}
	}
	if layout.Has(model.FieldAdminDischarge) {
		if rec.AdminDischarge, err = optionalTimestamp(vals, model.FieldAdminDischarge, line); err != nil {
			return nil, err
		}
	}

	rec.DeriveDurations()
	return rec, nil
}

// optionalTimestamp returns nil for an empty cell and an error for a cell
// that is present but malformed.
func optionalTimestamp(vals map[model.Field]string, f model.Field, line int) (*time.Time, error) {
	raw := vals[f]
	if isMissing(raw) {
		return nil, nil
	}
	t, ok := ParseTimestamp(raw)
	if !ok {
		return nil, &DateParseError{Row: line, Field: f, Value: raw}
	}
	return &t, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// sortCanonical orders records by admission instant, keeping source order for
// ties, and assigns contiguous indexes.
func sortCanonical(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Admission.Before(records[j].Admission)
	})
	for i := range records {
		records[i].Index = i
	}
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
