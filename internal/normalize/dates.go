package normalize

import (
	"strings"
	"time"
)

// Day-first formats produced by the hospital exporting tool, most specific
// first. Go's "2" and "1" accept one or two digits, so zero-padded and
// unpadded values share a layout. ISO dates are unambiguous and accepted too.
var dateFormats = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006 3:04:05 PM",
	"2/1/2006 3:04 PM",
	"2/1/2006",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2-1-2006",
	"2.1.2006 15:04:05",
	"2.1.2006 15:04",
	"2.1.2006",
	"2/1/06 15:04:05",
	"2/1/06 15:04",
	"2/1/06",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var meridiem = strings.NewReplacer("a.m.", "AM", "p.m.", "PM", "am", "AM", "pm", "PM")

// ParseTimestamp parses a day-first date or date-time string as a wall-clock
// time in UTC. ok is false for empty or unparseable input.
func ParseTimestamp(s string) (t time.Time, ok bool) {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return time.Time{}, false
	}
	s = meridiem.Replace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
