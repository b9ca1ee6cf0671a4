package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

const dateLayout = "02/01/2006 15:04"

// WriteText renders the report as console tables. Percentages are rounded
// to two decimals.
func WriteText(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Reporte %s\t%d registros\n", r.Kind, r.Records)
	if r.Period != nil {
		fmt.Fprintf(tw, "Período\t%s a %s\n", r.Period.From.Format(dateLayout), r.Period.To.Format(dateLayout))
	}
	fmt.Fprintf(tw, "Sin codificar (CIE10)\t%d\n", r.Uncoded)

	for _, t := range r.Tables {
		fmt.Fprintf(tw, "\n%s\n", t.Title)
		fmt.Fprintf(tw, "%s\tCANTIDAD\t%% TOTAL\n", t.Ranked.Dimension.Title())
		for _, e := range t.Ranked.Entries {
			fmt.Fprintf(tw, "%s\t%d\t%.2f\n", e.Label, e.Count, e.Percent)
		}
		if t.Ranked.Missing > 0 {
			fmt.Fprintf(tw, "(sin valor)\t%d\t\n", t.Ranked.Missing)
		}
	}

	if len(r.Durations) > 0 {
		fmt.Fprintf(tw, "\nTiempos promedio\n")
		for _, d := range r.Durations {
			label := d.Label
			if d.Partition != "" {
				label = fmt.Sprintf("%s - %s", d.Label, d.Partition)
			}
			fmt.Fprintf(tw, "%s\t%s\n", label, FormatDuration(d.Mean))
		}
	}

	if len(r.Anomalies) > 0 {
		fmt.Fprintf(tw, "\nTiempos negativos\t%d\n", len(r.Anomalies))
		for _, a := range r.Anomalies {
			fmt.Fprintf(tw, "línea %d\t%s\t%s\n", a.SourceRow, a.FieldName, a.Duration)
		}
	}
	return tw.Flush()
}

// WriteJSON renders the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// FormatDuration renders a mean duration to the second, or "-" when absent.
func FormatDuration(d *time.Duration) string {
	if d == nil {
		return "-"
	}
	return d.Round(time.Second).String()
}
