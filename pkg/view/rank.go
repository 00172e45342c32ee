package view

import (
	"sort"

	"github.com/matzehuels/citylink/pkg/record"
)

// TopN returns the n records with the largest value of f, descending.
// Ties keep their source order. The input slice is never modified.
func TopN(records []record.Record, f record.Field, n int) []record.Record {
	if n <= 0 || len(records) == 0 {
		return []record.Record{}
	}
	sorted := make([]record.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value(f) > sorted[j].Value(f)
	})
	return sorted[:min(n, len(sorted))]
}
