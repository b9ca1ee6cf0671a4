// Package aggregate computes category counts, partitions and duration means
// over canonical record sets. Every function is pure; inputs are never
// modified.
package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/gyeh/hmnreport/internal/model"
)

// Dimension is the closed set of attributes records can be grouped by.
type Dimension string

const (
	DimService         Dimension = "service"
	DimSection         Dimension = "section"
	DimStaff           Dimension = "staff"
	DimHour            Dimension = "hour"
	DimWeekday         Dimension = "weekday"
	DimAgeBracket      Dimension = "age-bracket"
	DimDiagnosisCode   Dimension = "diagnosis-code"
	DimDischargeReason Dimension = "discharge-reason"
	DimProcedure       Dimension = "procedure"
)

// AllDimensions lists every dimension in display order.
var AllDimensions = []Dimension{
	DimService, DimSection, DimStaff, DimHour, DimWeekday,
	DimAgeBracket, DimDiagnosisCode, DimDischargeReason, DimProcedure,
}

// NoData labels records whose discharge reason (or partition key) is absent.
const NoData = "(sin dato)"

// Weekday labels, Monday first.
var weekdayLabels = []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

var hourLabels = func() []string {
	out := make([]string, 24)
	for h := range out {
		out[h] = fmt.Sprintf("%02d", h)
	}
	return out
}()

var dimensionAliases = map[string]Dimension{
	"sub-section":  DimSection,
	"subsection":   DimSection,
	"hour-of-day":  DimHour,
	"age":          DimAgeBracket,
	"diagnosis":    DimDiagnosisCode,
	"cie10":        DimDiagnosisCode,
	"discharge":    DimDischargeReason,
	"professional": DimStaff,
	"servicio":     DimService,
	"seccion":      DimSection,
	"profesional":  DimStaff,
	"hora":         DimHour,
	"dia":          DimWeekday,
	"edad":         DimAgeBracket,
	"diagnostico":  DimDiagnosisCode,
	"motivo-alta":  DimDischargeReason,
	"prestacion":   DimProcedure,
}

// ParseDimension resolves a dimension name, or returns an error listing the
// valid names.
func ParseDimension(s string) (Dimension, error) {
	s = model.FoldName(s)
	for _, d := range AllDimensions {
		if string(d) == s {
			return d, nil
		}
	}
	if d, ok := dimensionAliases[s]; ok {
		return d, nil
	}
	return "", fmt.Errorf("unknown dimension %q (want one of %s)", s, strings.Join(dimensionNames(), ", "))
}

func dimensionNames() []string {
	out := make([]string, len(AllDimensions))
	for i, d := range AllDimensions {
		out[i] = string(d)
	}
	return out
}

// Title is the Spanish heading used for the dimension in reports.
func (d Dimension) Title() string {
	switch d {
	case DimService:
		return "Servicio"
	case DimSection:
		return "Sección"
	case DimStaff:
		return "Profesional"
	case DimHour:
		return "Hora de Ingreso"
	case DimWeekday:
		return "Día de la Semana"
	case DimAgeBracket:
		return "Grupo Etario"
	case DimDiagnosisCode:
		return "Diagnóstico CIE10"
	case DimDischargeReason:
		return "Motivo de Alta"
	case DimProcedure:
		return "Prestación"
	}
	return string(d)
}

// Fixed reports whether the dimension has a natural category order (hours,
// weekdays, age brackets) instead of a ranking by count.
func (d Dimension) Fixed() bool {
	return d.natural() != nil
}

func (d Dimension) natural() []string {
	switch d {
	case DimHour:
		return hourLabels
	case DimWeekday:
		return weekdayLabels
	case DimAgeBracket:
		out := make([]string, model.NumBrackets)
		for i, b := range model.AllBrackets() {
			out[i] = b.Label()
		}
		return out
	}
	return nil
}

// Key returns the category of r along d. ok is false when the record has no
// value for the dimension; such records are counted as missing.
func (d Dimension) Key(r *model.Record) (label string, ok bool) {
	switch d {
	case DimService:
		return r.Service, r.Service != ""
	case DimSection:
		return r.Section, r.Section != ""
	case DimStaff:
		return r.Staff, r.Staff != ""
	case DimProcedure:
		return r.Procedure, r.Procedure != ""
	case DimHour:
		return hourLabels[r.Admission.Hour()], true
	case DimWeekday:
		return weekdayLabel(r.Admission.Weekday()), true
	case DimAgeBracket:
		return r.AgeBracket().Label(), true
	case DimDiagnosisCode:
		if r.DiagnosisCode == nil {
			return "", false
		}
		return *r.DiagnosisCode, true
	case DimDischargeReason:
		if r.DischargeReason == nil {
			return NoData, true
		}
		return *r.DischargeReason, true
	}
	return "", false
}

// weekdayLabel maps time.Weekday (Sunday = 0) onto the Monday-first labels.
func weekdayLabel(w time.Weekday) string {
	return weekdayLabels[(int(w)+6)%7]
}
