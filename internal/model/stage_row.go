package model

import "github.com/google/uuid"

// StageRow is one canonical record tagged for a load batch, in the shape
// COPY writes to hmn.stage_records.
type StageRow struct {
	LoadBatchID  uuid.UUID
	SourceFileID int64
	RecordHash   []byte
	Record       *Record
}

// StageColumns returns the column names for COPY into hmn.stage_records,
// in the order CopyValues produces them.
func StageColumns() []string {
	return []string{
		"load_batch_id", "source_file_id", "record_index", "source_row", "record_hash",
		"record_kind", "patient_id", "record_number", "patient_name", "sex", "age", "age_bracket",
		"admitted_at", "clinical_discharge_at", "admin_discharge_at",
		"service", "section", "staff", "procedure", "discharge_reason",
		"diagnosis", "diagnosis_code", "diagnosis_desc",
		"admission_to_clinical_s", "clinical_to_admin_s", "total_stay_s",
	}
}

// CopyValues returns the row's values in StageColumns order.
func (s *StageRow) CopyValues() []any {
	r := s.Record
	return []any{
		s.LoadBatchID, s.SourceFileID, int32(r.Index), int32(r.SourceRow), s.RecordHash,
		string(r.Kind), r.PatientID, r.RecordID, r.PatientName, r.Sex, int32(r.Age), int16(r.AgeBracket()),
		r.Admission, r.ClinicalDischarge, r.AdminDischarge,
		r.Service, r.Section, r.Staff, r.Procedure, r.DischargeReason,
		r.Diagnosis, r.DiagnosisCode, r.DiagnosisDesc,
		secondsPtr(r.AdmissionToClinical), secondsPtr(r.ClinicalToAdmin), secondsPtr(r.TotalStay),
	}
}
