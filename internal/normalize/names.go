package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// CleanLabel collapses whitespace and trims. Case is preserved because labels
// are displayed as-is in reports.
func CleanLabel(v string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(v, " "))
}

// OptLabel is CleanLabel for nullable fields: blank and missing-value markers
// become nil.
func OptLabel(v string) *string {
	if isMissing(v) {
		return nil
	}
	s := CleanLabel(v)
	return &s
}

// isMissing reports whether a cell carries no value. Spreadsheet round trips
// through analysis tools leave "nan" and "NULL" in empty cells.
func isMissing(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "nan", "null", "none", "-":
		return true
	}
	return false
}
