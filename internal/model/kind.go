package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Kind identifies one of the supported hospital export types.
type Kind string

const (
	KindEmergency  Kind = "emergency"
	KindOutpatient Kind = "outpatient"
	KindInpatient  Kind = "inpatient"
	KindSurgery    Kind = "surgery"
	KindLab        Kind = "lab"
)

// AllKinds lists the supported record kinds in canonical order.
var AllKinds = []Kind{KindEmergency, KindOutpatient, KindInpatient, KindSurgery, KindLab}

// kindAliases maps the names used by the exporting tool and operators to a Kind.
var kindAliases = map[string]Kind{
	"emergency":       KindEmergency,
	"emergencias":     KindEmergency,
	"guardia":         KindEmergency,
	"outpatient":      KindOutpatient,
	"ambulatorio":     KindOutpatient,
	"turnos":          KindOutpatient,
	"inpatient":       KindInpatient,
	"hospitalizacion": KindInpatient,
	"internacion":     KindInpatient,
	"surgery":         KindSurgery,
	"quirofano":       KindSurgery,
	"cirugia":         KindSurgery,
	"lab":             KindLab,
	"laboratorio":     KindLab,
}

// ParseKind resolves a kind name (English or the export's Spanish name), or ok=false.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindAliases[FoldName(s)]
	return k, ok
}

// FoldName lowercases, trims and strips diacritics so operator input such as
// "Cirugía" or " INTERNACIÓN" matches the plain alias tables.
func FoldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// HasDischarge reports whether records of this kind carry clinical and
// administrative discharge instants.
func (k Kind) HasDischarge() bool {
	return k == KindEmergency || k == KindInpatient
}

// KindNames returns the canonical kind names.
func KindNames() []string {
	names := make([]string, len(AllKinds))
	for i, k := range AllKinds {
		names[i] = string(k)
	}
	return names
}
