// Package report assembles aggregate tables into a report value. A report
// is plain data: charts are described by a hint and drawn elsewhere.
package report

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/gyeh/hmnreport/internal/aggregate"
	"github.com/gyeh/hmnreport/internal/model"
)

// Period is the admission range covered by a report.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Table is one ranked table. Partition is empty for the overall table.
type Table struct {
	Title     string           `json:"title"`
	Chart     Chart            `json:"chart,omitempty"`
	Partition string           `json:"partition,omitempty"`
	Ranked    aggregate.Ranked `json:"ranked"`
}

// PartitionSummary counts the records of one partition.
type PartitionSummary struct {
	Label   string `json:"label"`
	Records int    `json:"records"`
}

// DurationStat is the mean of one duration, overall or for a partition.
// Mean is nil when no record has both endpoints.
type DurationStat struct {
	Field     string         `json:"field"`
	Label     string         `json:"label"`
	Partition string         `json:"partition,omitempty"`
	Mean      *time.Duration `json:"mean_ns"`
}

// Report is the full descriptive summary of a canonical record set.
type Report struct {
	Kind       model.Kind          `json:"kind"`
	Period     *Period             `json:"period,omitempty"`
	Records    int                 `json:"records"`
	Partition  aggregate.Dimension `json:"partition_dimension,omitempty"`
	Partitions []PartitionSummary  `json:"partitions,omitempty"`
	Tables     []Table             `json:"tables"`
	Durations  []DurationStat      `json:"durations,omitempty"`
	Uncoded    int                 `json:"uncoded"`
	Anomalies  []aggregate.Anomaly `json:"anomalies,omitempty"`
}

// Build computes every table of the profile over records. It does not
// modify records and never fails on an empty set.
func Build(records []model.Record, p Profile) *Report {
	r := &Report{
		Kind:      p.Kind,
		Records:   len(records),
		Partition: p.Partition,
		Uncoded: lo.CountBy(records, func(rec model.Record) bool {
			return rec.DiagnosisCode == nil
		}),
		Anomalies: aggregate.NegativeDurations(records),
	}
	if len(records) > 0 {
		from := lo.MinBy(records, func(a, b model.Record) bool { return a.Admission.Before(b.Admission) })
		to := lo.MaxBy(records, func(a, b model.Record) bool { return a.Admission.After(b.Admission) })
		r.Period = &Period{From: from.Admission, To: to.Admission}
	}

	var parts []aggregate.Partition
	if p.Partition != "" {
		parts = aggregate.PartitionBy(records, p.Partition)
		r.Partitions = lo.Map(parts, func(pt aggregate.Partition, _ int) PartitionSummary {
			return PartitionSummary{Label: pt.Label, Records: len(pt.Records)}
		})
	}

	for _, spec := range p.Tables {
		top := p.top(spec)
		title := tableTitle(spec, top)
		r.Tables = append(r.Tables, Table{
			Title:  title,
			Chart:  spec.Chart,
			Ranked: truncate(aggregate.CountBy(records, spec.Dimension), top),
		})
		if !spec.PerPartition {
			continue
		}
		for _, pt := range parts {
			r.Tables = append(r.Tables, Table{
				Title:     fmt.Sprintf("%s - %s", title, pt.Label),
				Chart:     spec.Chart,
				Partition: pt.Label,
				Ranked:    truncate(aggregate.CountBy(pt.Records, spec.Dimension), top),
			})
		}
	}

	if p.Durations {
		r.Durations = durationStats(records, "")
		for _, pt := range parts {
			r.Durations = append(r.Durations, durationStats(pt.Records, pt.Label)...)
		}
	}
	return r
}

func durationStats(records []model.Record, partition string) []DurationStat {
	return lo.Map(model.AllDurationFields, func(f model.DurationField, _ int) DurationStat {
		return DurationStat{
			Field:     f.String(),
			Label:     f.Label(),
			Partition: partition,
			Mean:      aggregate.MeanDuration(records, f),
		}
	})
}

func truncate(r aggregate.Ranked, top int) aggregate.Ranked {
	if top <= 0 {
		return r
	}
	return aggregate.TopN(r, top)
}

func tableTitle(spec TableSpec, top int) string {
	if spec.Title != "" {
		return spec.Title
	}
	if top > 0 {
		return fmt.Sprintf("%s (top %d)", spec.Dimension.Title(), top)
	}
	return spec.Dimension.Title()
}

// Table returns the overall table for a dimension, or ok=false.
func (r *Report) Table(dim aggregate.Dimension) (Table, bool) {
	return lo.Find(r.Tables, func(t Table) bool {
		return t.Partition == "" && t.Ranked.Dimension == dim
	})
}
