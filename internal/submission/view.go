package submission

import "sort"

// NewestFirst returns a copy of records ordered by Timestamp descending.
// Records with equal timestamps keep their insertion order.
func NewestFirst(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	return out
}
