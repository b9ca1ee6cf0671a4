package report

import (
	"fmt"

	"github.com/gyeh/hmnreport/internal/aggregate"
	"github.com/gyeh/hmnreport/internal/model"
)

// Chart is the suggested chart type for a table. Rendering is done by the
// consumer of the report; the hint only travels with the data.
type Chart string

const (
	ChartBar  Chart = "bar"
	ChartPie  Chart = "pie"
	ChartLine Chart = "line"
)

// TableSpec selects one ranked table of a report.
type TableSpec struct {
	Dimension    aggregate.Dimension `yaml:"dimension" json:"dimension"`
	Title        string              `yaml:"title,omitempty" json:"title,omitempty"`
	Chart        Chart               `yaml:"chart,omitempty" json:"chart,omitempty"`
	Top          int                 `yaml:"top,omitempty" json:"top,omitempty"` // 0 keeps every category
	PerPartition bool                `yaml:"per_partition,omitempty" json:"per_partition,omitempty"`
}

// Profile describes which tables a report of one kind contains.
type Profile struct {
	Kind      model.Kind          `yaml:"kind" json:"kind"`
	Partition aggregate.Dimension `yaml:"partition,omitempty" json:"partition,omitempty"`
	// TopN, when positive, replaces the size of every truncated table.
	TopN      int         `yaml:"top_n,omitempty" json:"top_n,omitempty"`
	Durations bool        `yaml:"durations,omitempty" json:"durations,omitempty"`
	Tables    []TableSpec `yaml:"tables" json:"tables"`
}

const defaultTop = 20

// DefaultProfile returns the standard report for a kind.
func DefaultProfile(kind model.Kind) Profile {
	switch kind {
	case model.KindEmergency:
		return Profile{
			Kind:      kind,
			Partition: aggregate.DimSection,
			Durations: true,
			Tables: []TableSpec{
				{Dimension: aggregate.DimSection, Chart: ChartPie},
				{Dimension: aggregate.DimStaff, Chart: ChartBar, Top: defaultTop, PerPartition: true},
				{Dimension: aggregate.DimHour, Chart: ChartLine, PerPartition: true},
				{Dimension: aggregate.DimWeekday, Chart: ChartBar, PerPartition: true},
				{Dimension: aggregate.DimAgeBracket, Chart: ChartBar, PerPartition: true},
				{Dimension: aggregate.DimDiagnosisCode, Chart: ChartBar, Top: defaultTop, PerPartition: true},
				{Dimension: aggregate.DimDischargeReason, Chart: ChartPie, PerPartition: true},
			},
		}
	case model.KindInpatient:
		return Profile{
			Kind:      kind,
			Partition: aggregate.DimService,
			Durations: true,
			Tables: []TableSpec{
				{Dimension: aggregate.DimService, Chart: ChartPie},
				{Dimension: aggregate.DimSection, Chart: ChartBar, PerPartition: true},
				{Dimension: aggregate.DimStaff, Chart: ChartBar, Top: defaultTop},
				{Dimension: aggregate.DimHour, Chart: ChartLine},
				{Dimension: aggregate.DimAgeBracket, Chart: ChartBar},
				{Dimension: aggregate.DimDiagnosisCode, Chart: ChartBar, Top: defaultTop},
				{Dimension: aggregate.DimDischargeReason, Chart: ChartPie},
			},
		}
	case model.KindOutpatient:
		return Profile{
			Kind:      kind,
			Partition: aggregate.DimService,
			Tables: []TableSpec{
				{Dimension: aggregate.DimService, Chart: ChartPie},
				{Dimension: aggregate.DimSection, Chart: ChartBar, PerPartition: true},
				{Dimension: aggregate.DimStaff, Chart: ChartBar, Top: defaultTop},
				{Dimension: aggregate.DimWeekday, Chart: ChartBar},
				{Dimension: aggregate.DimAgeBracket, Chart: ChartBar},
				{Dimension: aggregate.DimHour, Chart: ChartLine},
				{Dimension: aggregate.DimDiagnosisCode, Chart: ChartBar, Top: defaultTop},
			},
		}
	default:
		return Profile{
			Kind:      kind,
			Partition: aggregate.DimService,
			Tables: []TableSpec{
				{Dimension: aggregate.DimService, Chart: ChartPie},
				{Dimension: aggregate.DimSection, Chart: ChartBar, PerPartition: true},
				{Dimension: aggregate.DimStaff, Chart: ChartBar, Top: defaultTop},
				{Dimension: aggregate.DimProcedure, Chart: ChartBar, Top: defaultTop},
				{Dimension: aggregate.DimWeekday, Chart: ChartBar},
				{Dimension: aggregate.DimHour, Chart: ChartLine},
			},
		}
	}
}

// Validate checks the profile against the closed kind and dimension sets.
func (p *Profile) Validate() error {
	k, ok := model.ParseKind(string(p.Kind))
	if !ok {
		return fmt.Errorf("profile: unknown kind %q", p.Kind)
	}
	p.Kind = k
	if p.Partition != "" {
		d, err := aggregate.ParseDimension(string(p.Partition))
		if err != nil {
			return fmt.Errorf("profile %s: partition: %w", p.Kind, err)
		}
		p.Partition = d
	}
	if p.TopN < 0 {
		return fmt.Errorf("profile %s: top_n must not be negative", p.Kind)
	}
	if len(p.Tables) == 0 {
		return fmt.Errorf("profile %s: no tables", p.Kind)
	}
	for i := range p.Tables {
		t := &p.Tables[i]
		d, err := aggregate.ParseDimension(string(t.Dimension))
		if err != nil {
			return fmt.Errorf("profile %s: table %d: %w", p.Kind, i, err)
		}
		t.Dimension = d
		switch t.Chart {
		case "", ChartBar, ChartPie, ChartLine:
		default:
			return fmt.Errorf("profile %s: table %d: unknown chart %q", p.Kind, i, t.Chart)
		}
		if t.Top < 0 {
			return fmt.Errorf("profile %s: table %d: top must not be negative", p.Kind, i)
		}
		if t.PerPartition && p.Partition == "" {
			return fmt.Errorf("profile %s: table %d is per partition but the profile has no partition", p.Kind, i)
		}
	}
	return nil
}

func (p *Profile) top(t TableSpec) int {
	if t.Top > 0 && p.TopN > 0 {
		return p.TopN
	}
	return t.Top
}
