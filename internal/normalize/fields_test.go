package normalize

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"05/03/2021 14:30", time.Date(2021, 3, 5, 14, 30, 0, 0, time.UTC), true},
		{"5/3/2021", time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{" 05/03/2021   14:30:15 ", time.Date(2021, 3, 5, 14, 30, 15, 0, time.UTC), true},
		{"05-03-2021 07:05", time.Date(2021, 3, 5, 7, 5, 0, 0, time.UTC), true},
		{"5/3/2021 2:30 p.m.", time.Date(2021, 3, 5, 14, 30, 0, 0, time.UTC), true},
		{"05/03/21 10:00", time.Date(2021, 3, 5, 10, 0, 0, 0, time.UTC), true},
		{"2021-03-05 14:30:00", time.Date(2021, 3, 5, 14, 30, 0, 0, time.UTC), true},
		{"13/12/2020", time.Date(2020, 12, 13, 0, 0, 0, 0, time.UTC), true},
		{"12/13/2020", time.Time{}, false},
		{"31/02/2021", time.Time{}, false},
		{"", time.Time{}, false},
		{"nan", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseTimestamp(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{" 34 ", 34, true},
		{"34.0", 34, true},
		{"34,0", 34, true},
		{"104", 104, true},
		{"-1", 0, false},
		{"3.5", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"abc", 0, false},
		{"1e1", 0, false},
		{"0x1p3", 0, false},
		{"+5", 0, false},
		{"34.", 0, false},
		{"99999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseAge(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseAge(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDiagnosisCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"o80.0 ", "O80.0"},
		{"J18-9", "J189"},
		{"R10.4.", "R10.4"},
		{"", ""},
		{"null", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		got := DiagnosisCode(tt.in)
		if tt.want == "" {
			if got != nil {
				t.Errorf("DiagnosisCode(%q) = %q, want nil", tt.in, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("DiagnosisCode(%q) = %v, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanLabel(t *testing.T) {
	if got := CleanLabel("  CLINICA \t MEDICA "); got != "CLINICA MEDICA" {
		t.Errorf("CleanLabel = %q", got)
	}
	if OptLabel(" NaN ") != nil {
		t.Error("OptLabel should treat NaN as missing")
	}
}
