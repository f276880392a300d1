package report

// Accumulate folds records into per-bucket sums in a single pass. Each record
// contributes valueOf(record) to the bucket named by keyOf(record); a missing
// source field is expected to surface as a zero value, which still lands in
// the bucket without changing its total. An empty input is valid and yields
// an empty map.
func Accumulate[T any](records []T, keyOf func(T) string, valueOf func(T) float64) map[string]float64 {
	totals := make(map[string]float64, len(records))
	for _, record := range records {
		totals[keyOf(record)] += valueOf(record)
	}
	return totals
}

// CountBy tallies records per bucket key.
func CountBy[T any](records []T, keyOf func(T) string) map[string]int {
	counts := make(map[string]int, len(records))
	for _, record := range records {
		counts[keyOf(record)]++
	}
	return counts
}
