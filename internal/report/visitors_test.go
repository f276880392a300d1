package report

import (
	"testing"
	"time"
)

func TestClassifyVisitors(t *testing.T) {
	periodStart := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	reservations := []Reservation{
		{Phone: "010-1", Datetime: time.Date(2024, 1, 5, 18, 0, 0, 0, time.UTC)},
		{Phone: "010-1", Datetime: time.Date(2024, 6, 10, 19, 0, 0, 0, time.UTC)},
		{Phone: "010-2", Datetime: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)},
	}

	got := ClassifyVisitors(reservations, periodStart)
	if got.New != 1 || got.Repeat != 1 {
		t.Fatalf("expected new=1 repeat=1, got %+v", got)
	}
}

func TestClassifyVisitorsFirstVisitDecides(t *testing.T) {
	periodStart := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	// Out-of-order history: the June visit arrives before the January one.
	reservations := []Reservation{
		{Phone: "010-9", Datetime: time.Date(2024, 6, 20, 18, 0, 0, 0, time.UTC)},
		{Phone: "010-9", Datetime: time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)},
	}

	got := ClassifyVisitors(reservations, periodStart)
	if got.New != 0 || got.Repeat != 1 {
		t.Fatalf("first-ever visit must decide: got %+v", got)
	}
}

func TestClassifyVisitorsSkipsEmptyPhone(t *testing.T) {
	periodStart := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	reservations := []Reservation{
		{Phone: "", Datetime: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)},
	}

	got := ClassifyVisitors(reservations, periodStart)
	if got.New != 0 || got.Repeat != 0 {
		t.Fatalf("phoneless reservations must not classify, got %+v", got)
	}
}

func TestClassifyVisitorsEmpty(t *testing.T) {
	got := ClassifyVisitors(nil, time.Now())
	if got.New != 0 || got.Repeat != 0 {
		t.Fatalf("expected zero ratio, got %+v", got)
	}
}
