package normalize

import (
	"regexp"
	"strings"
)

var nonCodeChars = regexp.MustCompile(`[^A-Z0-9.]`)

// DiagnosisCode trims, uppercases, and strips everything but letters, digits
// and the dot of a CIE10 code ("o80.0 " -> "O80.0").
// Returns nil if the input is blank or a missing-value marker.
func DiagnosisCode(v string) *string {
	if isMissing(v) {
		return nil
	}
	s := strings.ToUpper(strings.TrimSpace(v))
	s = nonCodeChars.ReplaceAllString(s, "")
	s = strings.Trim(s, ".")
	if s == "" {
		return nil
	}
	return &s
}
