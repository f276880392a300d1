package report

import (
	"reflect"
	"testing"
	"time"
)

var seoul = mustLoadLocation("Asia/Seoul")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func TestBuildEmptyInputs(t *testing.T) {
	anchor := time.Date(2024, time.March, 15, 9, 0, 0, 0, seoul)
	got := Build(anchor, seoul, nil, nil, nil)

	if got.TodayReservationCount != 0 || got.TotalCustomers != 0 || got.TodaySalesTotal != 0 {
		t.Fatalf("expected zero summary, got %+v", got)
	}
	if len(got.MonthlySeries) != 12 {
		t.Fatalf("monthly series must stay dense: got %d entries", len(got.MonthlySeries))
	}
	for i, entry := range got.MonthlySeries {
		if entry.Total != 0 {
			t.Fatalf("month %s should be zero, got %v", entry.Month, entry.Total)
		}
		if i > 0 && entry.Month <= got.MonthlySeries[i-1].Month {
			t.Fatalf("months out of order at %d: %s", i, entry.Month)
		}
	}
	if got.MonthlySeries[0].Month != "2023-04" || got.MonthlySeries[11].Month != "2024-03" {
		t.Fatalf("window misaligned: %s .. %s", got.MonthlySeries[0].Month, got.MonthlySeries[11].Month)
	}
	if len(got.WeeklySeries) != 0 || len(got.TopMenu) != 0 || len(got.PaymentRatio) != 0 {
		t.Fatalf("sparse collections must be empty: %+v", got)
	}
}

func TestBuildTodayWindowUsesReportingTimezone(t *testing.T) {
	// 2024-06-10 23:30 KST is 14:30 UTC; both sales land on the same Seoul day.
	anchor := time.Date(2024, time.June, 10, 23, 30, 0, 0, seoul)
	sales := []Sale{
		{Total: 10000, CreatedAt: time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)},
		{Total: 20000, CreatedAt: time.Date(2024, 6, 9, 16, 0, 0, 0, time.UTC)}, // June 10 01:00 KST
		{Total: 40000, CreatedAt: time.Date(2024, 6, 8, 12, 0, 0, 0, time.UTC)},
	}

	got := Build(anchor, seoul, nil, nil, sales)
	if got.TodaySalesTotal != 30000 {
		t.Fatalf("expected today total 30000, got %v", got.TodaySalesTotal)
	}
}

func TestBuildWeeklySeriesSparse(t *testing.T) {
	anchor := time.Date(2024, time.June, 10, 12, 0, 0, 0, seoul)
	sales := []Sale{
		{Total: 10000, CreatedAt: time.Date(2024, 6, 10, 12, 0, 0, 0, seoul)},
		{Total: 5000, CreatedAt: time.Date(2024, 6, 7, 19, 0, 0, 0, seoul)},
		{Total: 2500, CreatedAt: time.Date(2024, 6, 7, 20, 0, 0, 0, seoul)},
		{Total: 99999, CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, seoul)}, // outside week
	}

	got := Build(anchor, seoul, nil, nil, sales)
	expected := []DailyTotal{
		{Date: "2024-06-07", Total: 7500},
		{Date: "2024-06-10", Total: 10000},
	}
	if !reflect.DeepEqual(got.WeeklySeries, expected) {
		t.Fatalf("expected %+v, got %+v", expected, got.WeeklySeries)
	}
}

func TestBuildTodayReservationCount(t *testing.T) {
	anchor := time.Date(2024, time.June, 10, 8, 0, 0, 0, seoul)
	reservations := []Reservation{
		{Phone: "010-1", Datetime: time.Date(2024, 6, 10, 19, 0, 0, 0, seoul)},
		{Phone: "010-2", Datetime: time.Date(2024, 6, 10, 0, 0, 0, 0, seoul)},
		{Phone: "010-3", Datetime: time.Date(2024, 6, 11, 0, 0, 0, 0, seoul)},
		{Phone: "010-4", Datetime: time.Date(2024, 6, 9, 23, 59, 0, 0, seoul)},
	}

	got := Build(anchor, seoul, nil, reservations, nil)
	if got.TodayReservationCount != 2 {
		t.Fatalf("expected 2 reservations today, got %d", got.TodayReservationCount)
	}
}

func TestBuildIdempotent(t *testing.T) {
	anchor := time.Date(2024, time.June, 10, 12, 0, 0, 0, seoul)
	customers := []Customer{
		{ID: 1, Phone: "010-1", CreatedAt: anchor.AddDate(0, -2, 0)},
		{ID: 2, Phone: "010-2", CreatedAt: anchor},
	}
	reservations := []Reservation{
		{Phone: "010-1", Datetime: anchor.AddDate(0, -5, 0), Status: StatusCancelled},
		{Phone: "010-1", Datetime: anchor},
		{Phone: "010-2", Datetime: anchor, Status: StatusNoShow},
	}
	sales := []Sale{
		{Total: 50000, PaymentMethod: "카드", CreatedAt: anchor,
			MenuItems: []MenuLine{{Item: "양갈비", Price: 25000, Qty: 2}}},
		{Total: 12000, PaymentMethod: "현금", CreatedAt: anchor.AddDate(0, -1, 0),
			MenuItems: []MenuLine{{Item: "볶음밥", Price: 6000, Qty: 2}}},
	}

	first := Build(anchor, seoul, customers, reservations, sales)
	second := Build(anchor, seoul, customers, reservations, sales)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("report not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestBuildComposite(t *testing.T) {
	anchor := time.Date(2024, time.June, 10, 12, 0, 0, 0, seoul)
	customers := []Customer{{ID: 1}, {ID: 2}, {ID: 3}}
	reservations := []Reservation{
		{Phone: "010-1", Datetime: time.Date(2024, 1, 5, 18, 0, 0, 0, seoul)},
		{Phone: "010-1", Datetime: time.Date(2024, 6, 10, 19, 0, 0, 0, seoul)},
		{Phone: "010-2", Datetime: time.Date(2024, 6, 3, 12, 0, 0, 0, seoul), Status: StatusCancelled},
	}
	sales := []Sale{
		{Total: 50000, PaymentMethod: "카드", CreatedAt: time.Date(2024, 6, 10, 13, 0, 0, 0, seoul),
			MenuItems: []MenuLine{{Item: "양갈비", Price: 25000, Qty: 2}}},
		{Total: 8000, PaymentMethod: "현금", CreatedAt: time.Date(2024, 4, 2, 13, 0, 0, 0, seoul),
			MenuItems: []MenuLine{{Item: "볶음밥", Price: 8000, Qty: 1}}},
	}

	got := Build(anchor, seoul, customers, reservations, sales)

	if got.TotalCustomers != 3 {
		t.Fatalf("expected 3 customers, got %d", got.TotalCustomers)
	}
	if got.TodayReservationCount != 1 {
		t.Fatalf("expected 1 reservation today, got %d", got.TodayReservationCount)
	}
	if got.TodaySalesTotal != 50000 {
		t.Fatalf("expected today total 50000, got %v", got.TodaySalesTotal)
	}
	if got.VisitorRatio.New != 1 || got.VisitorRatio.Repeat != 1 {
		t.Fatalf("unexpected visitor ratio: %+v", got.VisitorRatio)
	}
	if got.StatusRatio.Confirmed != 2 || got.StatusRatio.Cancelled != 1 {
		t.Fatalf("unexpected status ratio: %+v", got.StatusRatio)
	}

	var april, june float64
	for _, entry := range got.MonthlySeries {
		switch entry.Month {
		case "2024-04":
			april = entry.Total
		case "2024-06":
			june = entry.Total
		}
	}
	if april != 8000 || june != 50000 {
		t.Fatalf("monthly sums wrong: april=%v june=%v", april, june)
	}
}
