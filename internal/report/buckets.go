package report

import (
	"sort"
	"time"
)

const (
	MonthKeyFormat   = "2006-01"
	MonthLabelFormat = "06.01"
	DayKeyFormat     = "2006-01-02"
)

// MonthBuckets returns exactly window month buckets ending at the anchor's
// month, oldest first. The skeleton is independent of record data: months
// with no activity still get a bucket, and year boundaries roll over
// (anchor March 2024, window 12 starts at April 2023).
func MonthBuckets(anchor time.Time, window int) []Bucket {
	if window <= 0 {
		return nil
	}
	anchorMonth := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	buckets := make([]Bucket, 0, window)
	for i := window - 1; i >= 0; i-- {
		month := anchorMonth.AddDate(0, -i, 0)
		buckets = append(buckets, Bucket{
			Key:   month.Format(MonthKeyFormat),
			Label: month.Format(MonthLabelFormat),
		})
	}
	return buckets
}

// DayBuckets derives day buckets from the distinct calendar dates present in
// records, ascending. Unlike MonthBuckets this set is sparse: days with zero
// records never appear.
func DayBuckets[T any](records []T, dayOf func(T) time.Time, loc *time.Location) []Bucket {
	if loc == nil {
		loc = time.UTC
	}
	seen := make(map[string]bool, len(records))
	keys := make([]string, 0, len(records))
	for _, record := range records {
		key := dayOf(record).In(loc).Format(DayKeyFormat)
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buckets := make([]Bucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, Bucket{Key: key, Label: key})
	}
	return buckets
}
