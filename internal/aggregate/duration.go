package aggregate

import (
	"time"

	"github.com/samber/lo"

	"github.com/gyeh/hmnreport/internal/model"
)

// MeanDuration returns the arithmetic mean of field over the records that
// have both of its endpoints, or nil when none do. Negative durations take
// part in the mean as they are.
func MeanDuration(records []model.Record, field model.DurationField) *time.Duration {
	ds := lo.FilterMap(records, func(r model.Record, _ int) (time.Duration, bool) {
		d := r.Duration(field)
		if d == nil {
			return 0, false
		}
		return *d, true
	})
	if len(ds) == 0 {
		return nil
	}

	// Summing whole seconds and the nanosecond remainders separately keeps
	// the total from overflowing for long, large sets.
	n := int64(len(ds))
	var secs, nanos int64
	for _, d := range ds {
		secs += int64(d / time.Second)
		nanos += int64(d % time.Second)
	}
	mean := time.Duration(secs/n)*time.Second + time.Duration(((secs%n)*int64(time.Second)+nanos)/n)
	return &mean
}

// Anomaly is a record whose timestamps run backwards for one duration.
type Anomaly struct {
	Index     int                 `json:"index"`
	SourceRow int                 `json:"source_row"`
	PatientID string              `json:"patient_id"`
	Field     model.DurationField `json:"-"`
	FieldName string              `json:"field"`
	Duration  time.Duration       `json:"duration_ns"`
}

// NegativeDurations lists every negative derived duration, in canonical
// record order. Such records are kept by normalization and surfaced here.
func NegativeDurations(records []model.Record) []Anomaly {
	var out []Anomaly
	for _, r := range records {
		for _, f := range model.AllDurationFields {
			if d := r.Duration(f); d != nil && *d < 0 {
				out = append(out, Anomaly{
					Index:     r.Index,
					SourceRow: r.SourceRow,
					PatientID: r.PatientID,
					Field:     f,
					FieldName: f.String(),
					Duration:  *d,
				})
			}
		}
	}
	return out
}
