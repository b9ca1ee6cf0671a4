package model

import "time"

// RecordRow mirrors the Parquet snapshot schema for a canonical record.
// Timestamps are stored as UTC epoch milliseconds and durations as whole
// seconds; the wall clock of the export is preserved because normalization
// parses into UTC.
type RecordRow struct {
	Index     int32  `parquet:"record_index"`
	SourceRow int32  `parquet:"source_row"`
	Kind      string `parquet:"record_kind"`

	PatientID   string `parquet:"patient_id"`
	RecordID    string `parquet:"record_id"`
	PatientName string `parquet:"patient_name"`
	Sex         string `parquet:"sex"`
	Age         int32  `parquet:"age"`

	AdmissionMillis         int64  `parquet:"admission_ms"`
	ClinicalDischargeMillis *int64 `parquet:"clinical_discharge_ms,optional"`
	AdminDischargeMillis    *int64 `parquet:"admin_discharge_ms,optional"`

	Service         string  `parquet:"service"`
	Section         string  `parquet:"section"`
	Staff           string  `parquet:"staff"`
	Procedure       string  `parquet:"procedure"`
	DischargeReason *string `parquet:"discharge_reason,optional"`
	Diagnosis       string  `parquet:"diagnosis"`
	DiagnosisCode   *string `parquet:"diagnosis_code,optional"`
	DiagnosisDesc   string  `parquet:"diagnosis_desc"`

	AdmissionToClinicalSeconds *int64 `parquet:"admission_to_clinical_s,optional"`
	ClinicalToAdminSeconds     *int64 `parquet:"clinical_to_admin_s,optional"`
	TotalStaySeconds           *int64 `parquet:"total_stay_s,optional"`
}

// SnapshotColumns lists the columns a snapshot must carry to be read back.
func SnapshotColumns() []string {
	return []string{
		"record_index", "source_row", "record_kind", "age", "admission_ms",
		"service", "section", "staff", "diagnosis_code",
	}
}

// ToRow flattens a Record for Parquet.
func (r *Record) ToRow() RecordRow {
	return RecordRow{
		Index:     int32(r.Index),
		SourceRow: int32(r.SourceRow),
		Kind:      string(r.Kind),

		PatientID:   r.PatientID,
		RecordID:    r.RecordID,
		PatientName: r.PatientName,
		Sex:         r.Sex,
		Age:         int32(r.Age),

		AdmissionMillis:         r.Admission.UnixMilli(),
		ClinicalDischargeMillis: millisPtr(r.ClinicalDischarge),
		AdminDischargeMillis:    millisPtr(r.AdminDischarge),

		Service:         r.Service,
		Section:         r.Section,
		Staff:           r.Staff,
		Procedure:       r.Procedure,
		DischargeReason: r.DischargeReason,
		Diagnosis:       r.Diagnosis,
		DiagnosisCode:   r.DiagnosisCode,
		DiagnosisDesc:   r.DiagnosisDesc,

		AdmissionToClinicalSeconds: secondsPtr(r.AdmissionToClinical),
		ClinicalToAdminSeconds:     secondsPtr(r.ClinicalToAdmin),
		TotalStaySeconds:           secondsPtr(r.TotalStay),
	}
}

// ToRecord rebuilds a Record from its snapshot row. Durations are derived
// again from the timestamps rather than trusted from the file.
func (row *RecordRow) ToRecord() Record {
	r := Record{
		Index:     int(row.Index),
		SourceRow: int(row.SourceRow),
		Kind:      Kind(row.Kind),

		PatientID:   row.PatientID,
		RecordID:    row.RecordID,
		PatientName: row.PatientName,
		Sex:         row.Sex,
		Age:         int(row.Age),

		Admission:         time.UnixMilli(row.AdmissionMillis).UTC(),
		ClinicalDischarge: timePtr(row.ClinicalDischargeMillis),
		AdminDischarge:    timePtr(row.AdminDischargeMillis),

		Service:         row.Service,
		Section:         row.Section,
		Staff:           row.Staff,
		Procedure:       row.Procedure,
		DischargeReason: row.DischargeReason,
		Diagnosis:       row.Diagnosis,
		DiagnosisCode:   row.DiagnosisCode,
		DiagnosisDesc:   row.DiagnosisDesc,
	}
	r.DeriveDurations()
	return r
}

func millisPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func timePtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}

func secondsPtr(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	s := int64(*d / time.Second)
	return &s
}
