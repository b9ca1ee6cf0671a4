package model

import "time"

// Record is the canonical, normalized representation of one row of a hospital
// export. Nullable values are pointers; durations are signed and nil when
// either endpoint is missing.
type Record struct {
	Index     int // contiguous, zero-based canonical position
	SourceRow int // 1-based line number in the raw export
	Kind      Kind

	// Identification
	PatientID   string // DNI
	RecordID    string // NHC
	PatientName string
	Sex         string
	Age         int

	// Timestamps
	Admission         time.Time
	ClinicalDischarge *time.Time
	AdminDischarge    *time.Time

	// Categorical attributes
	Service         string
	Section         string
	Staff           string
	Procedure       string
	DischargeReason *string
	Diagnosis       string
	DiagnosisCode   *string
	DiagnosisDesc   string

	// Derived
	AdmissionToClinical *time.Duration
	ClinicalToAdmin     *time.Duration
	TotalStay           *time.Duration
}

// DurationField selects one of the derived duration fields.
type DurationField int

const (
	DurationAdmissionToClinical DurationField = iota
	DurationClinicalToAdmin
	DurationTotalStay
)

// AllDurationFields lists the duration fields in display order.
var AllDurationFields = []DurationField{DurationAdmissionToClinical, DurationClinicalToAdmin, DurationTotalStay}

func (f DurationField) String() string {
	switch f {
	case DurationAdmissionToClinical:
		return "admission_to_clinical_discharge"
	case DurationClinicalToAdmin:
		return "clinical_to_admin_discharge"
	case DurationTotalStay:
		return "total_stay"
	}
	return "unknown"
}

// Label is the human-readable description used in reports.
func (f DurationField) Label() string {
	switch f {
	case DurationAdmissionToClinical:
		return "Entre Ingreso y Alta Médica"
	case DurationClinicalToAdmin:
		return "Entre Alta Médica y Alta Administrativa"
	case DurationTotalStay:
		return "Entre Ingreso y Alta Administrativa"
	}
	return ""
}

// DeriveDurations recomputes the duration fields from the timestamps.
// Out-of-order timestamps produce negative durations; they are reported, not corrected.
func (r *Record) DeriveDurations() {
	r.AdmissionToClinical = between(&r.Admission, r.ClinicalDischarge)
	r.ClinicalToAdmin = between(r.ClinicalDischarge, r.AdminDischarge)
	r.TotalStay = between(&r.Admission, r.AdminDischarge)
}

// Duration returns the requested derived duration.
func (r *Record) Duration(f DurationField) *time.Duration {
	switch f {
	case DurationAdmissionToClinical:
		return r.AdmissionToClinical
	case DurationClinicalToAdmin:
		return r.ClinicalToAdmin
	case DurationTotalStay:
		return r.TotalStay
	}
	return nil
}

// AgeBracket classifies the record's age.
func (r *Record) AgeBracket() AgeBracket {
	return BracketFor(r.Age)
}

func between(from, to *time.Time) *time.Duration {
	if from == nil || to == nil {
		return nil
	}
	d := to.Sub(*from)
	return &d
}
