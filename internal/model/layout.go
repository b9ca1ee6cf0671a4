package model

// Field is a canonical column name assigned to a kept raw column.
type Field string

const (
	FieldPatientID         Field = "DNI"
	FieldRecordID          Field = "NHC"
	FieldPatientName       Field = "PACIENTE"
	FieldSex               Field = "SEXO"
	FieldAge               Field = "EDAD"
	FieldAdmission         Field = "FECHA_HORA_INGRESO"
	FieldAppointmentDate   Field = "FECHA_TURNO"
	FieldAppointmentTime   Field = "HORA_TURNO"
	FieldService           Field = "SERVICIO"
	FieldSection           Field = "SECCION"
	FieldClinicalDischarge Field = "ALTA_MEDICA"
	FieldDischargeReason   Field = "MOTIVO_ALTA"
	FieldAdminDischarge    Field = "ALTA_ADMIN"
	FieldStaff             Field = "PROFESIONAL"
	FieldAgenda            Field = "AGENDA"
	FieldProcedure         Field = "PRESTACION"
	FieldDiagnosis         Field = "DIAGNOSTICO"
	FieldDiagnosisCode     Field = "CIE10"
	FieldDiagnosisDesc     Field = "DESC_CIE10"
)

// Layout describes the fixed shape of one kind of raw export: how wide the
// header line is, how many leading lines precede the first record, and which
// column positions are exporter padding. Positions are properties of the
// exporting tool and are never inferred from the data.
type Layout struct {
	Kind     Kind
	Width    int     // columns in the header line
	SkipRows int     // header line plus junk rows before the first record
	Drop     []int   // junk column positions, blank in the header line
	Fields   []Field // canonical names of the kept columns, in order
}

var (
	encounterFields = []Field{
		FieldPatientID, FieldRecordID, FieldPatientName, FieldSex, FieldAge, FieldAdmission,
		FieldService, FieldSection, FieldClinicalDischarge, FieldDischargeReason, FieldAdminDischarge,
		FieldStaff, FieldDiagnosis, FieldDiagnosisCode, FieldDiagnosisDesc,
	}
	outpatientFields = []Field{
		FieldPatientID, FieldRecordID, FieldPatientName, FieldSex, FieldAge, FieldAppointmentDate,
		FieldAppointmentTime, FieldService, FieldSection, FieldProcedure, FieldAgenda,
		FieldDischargeReason, FieldDiagnosis, FieldDiagnosisCode, FieldDiagnosisDesc,
	}
	surgeryFields = []Field{
		FieldPatientID, FieldRecordID, FieldPatientName, FieldSex, FieldAge, FieldAdmission,
		FieldService, FieldSection, FieldStaff, FieldProcedure, FieldDiagnosis, FieldDiagnosisCode,
		FieldDiagnosisDesc,
	}
	labFields = []Field{
		FieldPatientID, FieldRecordID, FieldPatientName, FieldSex, FieldAge, FieldAdmission,
		FieldService, FieldSection, FieldStaff, FieldProcedure, FieldDiagnosisCode,
	}
)

var layouts = map[Kind]Layout{
	KindEmergency: {
		Kind:     KindEmergency,
		Width:    27,
		SkipRows: 7,
		Drop:     append([]int{0, 7, 10}, span(18, 27)...),
		Fields:   encounterFields,
	},
	KindInpatient: {
		Kind:     KindInpatient,
		Width:    24,
		SkipRows: 7,
		Drop:     append([]int{0}, span(16, 24)...),
		Fields:   encounterFields,
	},
	KindOutpatient: {
		Kind:     KindOutpatient,
		Width:    16,
		SkipRows: 5,
		Drop:     []int{15},
		Fields:   outpatientFields,
	},
	KindSurgery: {
		Kind:     KindSurgery,
		Width:    16,
		SkipRows: 7,
		Drop:     []int{0, 14, 15},
		Fields:   surgeryFields,
	},
	KindLab: {
		Kind:     KindLab,
		Width:    15,
		SkipRows: 6,
		Drop:     []int{0, 12, 13, 14},
		Fields:   labFields,
	},
}

// LayoutFor returns the layout of the given kind, or ok=false.
func LayoutFor(k Kind) (Layout, bool) {
	l, ok := layouts[k]
	return l, ok
}

// KeptColumns returns the raw positions that carry canonical fields, in order.
func (l Layout) KeptColumns() []int {
	drop := make(map[int]bool, len(l.Drop))
	for _, c := range l.Drop {
		drop[c] = true
	}
	kept := make([]int, 0, l.Width-len(l.Drop))
	for c := 0; c < l.Width; c++ {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	return kept
}

// Has reports whether the layout assigns the given field.
func (l Layout) Has(f Field) bool {
	for _, lf := range l.Fields {
		if lf == f {
			return true
		}
	}
	return false
}

func span(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
