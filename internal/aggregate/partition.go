package aggregate

import (
	"github.com/samber/lo"

	"github.com/gyeh/hmnreport/internal/model"
)

// Partition is the subset of records sharing one category. Records keep
// their canonical order.
type Partition struct {
	Label   string
	Records []model.Record
}

// PartitionBy splits records by their category along dim, in the order the
// categories are first encountered. Records without a value are grouped
// under NoData so no record is lost.
func PartitionBy(records []model.Record, dim Dimension) []Partition {
	groups := lo.PartitionBy(records, func(r model.Record) string {
		return partitionKey(dim, &r)
	})
	return lo.Map(groups, func(g []model.Record, _ int) Partition {
		return Partition{Label: partitionKey(dim, &g[0]), Records: g}
	})
}

// Filter returns the records whose category along dim equals label. NoData
// selects the records without a value.
func Filter(records []model.Record, dim Dimension, label string) []model.Record {
	return lo.Filter(records, func(r model.Record, _ int) bool {
		return partitionKey(dim, &r) == label
	})
}

func partitionKey(dim Dimension, r *model.Record) string {
	if l, ok := dim.Key(r); ok {
		return l
	}
	return NoData
}
