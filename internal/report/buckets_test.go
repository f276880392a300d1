package report

import (
	"testing"
	"time"
)

func TestMonthBucketsWindowAndRollover(t *testing.T) {
	anchor := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	buckets := MonthBuckets(anchor, 12)

	if len(buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(buckets))
	}
	if buckets[0].Key != "2023-04" {
		t.Fatalf("expected first bucket 2023-04, got %s", buckets[0].Key)
	}
	if buckets[11].Key != "2024-03" {
		t.Fatalf("expected last bucket 2024-03, got %s", buckets[11].Key)
	}
	if buckets[0].Label != "23.04" {
		t.Fatalf("expected label 23.04, got %s", buckets[0].Label)
	}

	seen := map[string]bool{}
	for i, bucket := range buckets {
		if seen[bucket.Key] {
			t.Fatalf("duplicate bucket %s", bucket.Key)
		}
		seen[bucket.Key] = true
		if i > 0 && bucket.Key <= buckets[i-1].Key {
			t.Fatalf("buckets out of order: %s after %s", bucket.Key, buckets[i-1].Key)
		}
	}
}

func TestMonthBucketsContiguous(t *testing.T) {
	anchor := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	buckets := MonthBuckets(anchor, 12)

	expected := []string{
		"2024-02", "2024-03", "2024-04", "2024-05", "2024-06", "2024-07",
		"2024-08", "2024-09", "2024-10", "2024-11", "2024-12", "2025-01",
	}
	for i, key := range expected {
		if buckets[i].Key != key {
			t.Fatalf("bucket %d: expected %s, got %s", i, key, buckets[i].Key)
		}
	}
}

func TestMonthBucketsEmptyWindow(t *testing.T) {
	if got := MonthBuckets(time.Now(), 0); got != nil {
		t.Fatalf("expected nil for zero window, got %v", got)
	}
}

func TestDayBucketsSparseAndOrdered(t *testing.T) {
	sales := []Sale{
		{CreatedAt: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2024, 6, 8, 9, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2024, 6, 10, 20, 0, 0, 0, time.UTC)},
	}
	buckets := DayBuckets(sales, func(s Sale) time.Time { return s.CreatedAt }, time.UTC)

	if len(buckets) != 2 {
		t.Fatalf("expected 2 distinct days, got %d", len(buckets))
	}
	if buckets[0].Key != "2024-06-08" || buckets[1].Key != "2024-06-10" {
		t.Fatalf("unexpected order: %s, %s", buckets[0].Key, buckets[1].Key)
	}
}

func TestDayBucketsEmpty(t *testing.T) {
	buckets := DayBuckets(nil, func(s Sale) time.Time { return s.CreatedAt }, time.UTC)
	if len(buckets) != 0 {
		t.Fatalf("expected no buckets for empty input, got %d", len(buckets))
	}
}
