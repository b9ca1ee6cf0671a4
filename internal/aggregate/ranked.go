package aggregate

import (
	"sort"

	"github.com/samber/lo"

	"github.com/gyeh/hmnreport/internal/model"
)

// Entry is one category of a ranked mapping.
type Entry struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Ranked is the result of counting records along one dimension. Percent is
// relative to Total, the number of records with a value. Missing counts the
// records without one (uncoded diagnoses, blank categories); they are never
// part of Entries.
type Ranked struct {
	Dimension Dimension `json:"dimension"`
	Entries   []Entry   `json:"entries"`
	Total     int       `json:"total"`
	Missing   int       `json:"missing,omitempty"`
}

// Len returns the number of categories.
func (r Ranked) Len() int { return len(r.Entries) }

// Labels returns the category labels in order.
func (r Ranked) Labels() []string {
	return lo.Map(r.Entries, func(e Entry, _ int) string { return e.Label })
}

// Count returns the count for label, or 0.
func (r Ranked) Count(label string) int {
	e, _ := lo.Find(r.Entries, func(e Entry) bool { return e.Label == label })
	return e.Count
}

// CountBy counts records per category of dim. Ranked dimensions are ordered by
// count descending with ties in first-encountered order; fixed dimensions keep
// their natural order. Categories with no records are omitted. An empty input
// yields an empty Ranked.
func CountBy(records []model.Record, dim Dimension) Ranked {
	out := Ranked{Dimension: dim}
	labels := lo.FilterMap(records, func(r model.Record, _ int) (string, bool) {
		return dim.Key(&r)
	})
	out.Missing = len(records) - len(labels)
	out.Total = len(labels)
	if out.Total == 0 {
		return out
	}

	counts := lo.CountValues(labels)
	order := lo.Uniq(labels)
	if nat := dim.natural(); nat != nil {
		order = lo.Filter(nat, func(l string, _ int) bool { return counts[l] > 0 })
	}

	out.Entries = make([]Entry, 0, len(order))
	for _, l := range order {
		out.Entries = append(out.Entries, Entry{
			Label:   l,
			Count:   counts[l],
			Percent: float64(counts[l]) * 100 / float64(out.Total),
		})
	}
	if !dim.Fixed() {
		rank(out.Entries)
	}
	return out
}

// TopN keeps the n highest-count entries, breaking ties by the existing
// entry order. Total, Missing and each entry's Percent still describe the
// full set. TopN is idempotent; n <= 0 yields no entries.
func TopN(r Ranked, n int) Ranked {
	out := Ranked{Dimension: r.Dimension, Total: r.Total, Missing: r.Missing}
	if n <= 0 || len(r.Entries) == 0 {
		return out
	}
	entries := append([]Entry(nil), r.Entries...)
	rank(entries)
	if n < len(entries) {
		entries = entries[:n]
	}
	out.Entries = entries
	return out
}

func rank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
}
