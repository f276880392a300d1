package report

import (
	"testing"
	"time"
)

func TestAccumulateSinglePassSums(t *testing.T) {
	sales := []Sale{
		{Total: 10000, CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
		{Total: 5000, CreatedAt: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)},
		{Total: 7000, CreatedAt: time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)},
	}

	totals := Accumulate(sales,
		func(s Sale) string { return s.CreatedAt.Format(DayKeyFormat) },
		func(s Sale) float64 { return s.Total },
	)
	if totals["2024-06-01"] != 15000 || totals["2024-06-02"] != 7000 {
		t.Fatalf("unexpected totals: %v", totals)
	}
}

func TestAccumulateMissingValuesContributeZero(t *testing.T) {
	sales := []Sale{
		{CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}, // no total
		{Total: 3000, CreatedAt: time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)},
	}

	totals := Accumulate(sales,
		func(s Sale) string { return s.CreatedAt.Format(DayKeyFormat) },
		func(s Sale) float64 { return s.Total },
	)
	if totals["2024-06-01"] != 3000 {
		t.Fatalf("zero-valued record changed the sum: %v", totals)
	}
}

func TestAccumulateEmptyInput(t *testing.T) {
	totals := Accumulate(nil,
		func(s Sale) string { return "" },
		func(s Sale) float64 { return s.Total },
	)
	if len(totals) != 0 {
		t.Fatalf("expected empty map, got %v", totals)
	}
}

func TestCountBy(t *testing.T) {
	reservations := []Reservation{
		{Datetime: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Datetime: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)},
		{Datetime: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)},
	}

	counts := CountBy(reservations, func(r Reservation) string {
		return r.Datetime.Format(MonthKeyFormat)
	})
	if counts["2024-05"] != 2 || counts["2024-06"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}
