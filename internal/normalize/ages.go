package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// integralAge matches a plain integer, optionally with a zero fraction left
// behind by spreadsheet tools ("34.0", "34,00").
var integralAge = regexp.MustCompile(`^\d+(?:[.,]0+)?$`)

// ParseAge converts an age cell to a non-negative integer. Fractional,
// negative, exponent or otherwise non-decimal values are rejected.
func ParseAge(v string) (int, bool) {
	s := strings.TrimSpace(v)
	if !integralAge.MatchString(s) {
		return 0, false
	}
	if i := strings.IndexAny(s, ".,"); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n > math.MaxInt32 {
		return 0, false
	}
	return int(n), true
}
