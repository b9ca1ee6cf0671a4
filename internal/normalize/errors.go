package normalize

import (
	"fmt"

	"github.com/gyeh/hmnreport/internal/model"
)

// SchemaMismatchError reports a raw export whose shape does not match the
// fixed layout of its declared kind. Row is the 1-based line of the offending
// row (1 is the header line); Column is -1 when the width itself is wrong.
type SchemaMismatchError struct {
	Kind     model.Kind
	Row      int
	Column   int
	Expected int
	Observed int
	Detail   string
}

func (e *SchemaMismatchError) Error() string {
	if e.Column >= 0 {
		return fmt.Sprintf("%s export: line %d column %d: %s", e.Kind, e.Row, e.Column, e.Detail)
	}
	return fmt.Sprintf("%s export: line %d has %d columns, expected %d", e.Kind, e.Row, e.Observed, e.Expected)
}

// DateParseError reports a timestamp that does not parse under day-first rules.
type DateParseError struct {
	Row   int
	Field model.Field
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("line %d: %s: cannot parse %q as a day-first date", e.Row, e.Field, e.Value)
}

// InvalidAgeError reports an age that is not a non-negative integer.
type InvalidAgeError struct {
	Row   int
	Value string
}

func (e *InvalidAgeError) Error() string {
	return fmt.Sprintf("line %d: %s: invalid age %q", e.Row, model.FieldAge, e.Value)
}
