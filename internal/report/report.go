package report

import "time"

const (
	// DefaultMonthlyWindow is the span of the dense monthly series.
	DefaultMonthlyWindow = 12
	weeklyWindowDays     = 7
)

// Build composes the full report for the given anchor instant. It is a pure
// function of its arguments: identical inputs produce a structurally
// identical report, nothing is re-fetched, and the input slices are never
// mutated. All day and month boundaries are taken in loc, the single
// configured reporting timezone.
func Build(anchor time.Time, loc *time.Location, customers []Customer, reservations []Reservation, sales []Sale) Report {
	if loc == nil {
		loc = time.UTC
	}
	anchor = anchor.In(loc)

	dayStart := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)
	weekStart := dayStart.AddDate(0, 0, -(weeklyWindowDays - 1))
	monthStart := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)

	todayReservations := 0
	for _, reservation := range reservations {
		if within(reservation.Datetime, dayStart, dayEnd) {
			todayReservations++
		}
	}

	todayTotal := 0.0
	weekSales := make([]Sale, 0)
	for _, sale := range sales {
		if within(sale.CreatedAt, dayStart, dayEnd) {
			todayTotal += sale.Total
		}
		if within(sale.CreatedAt, weekStart, dayEnd) {
			weekSales = append(weekSales, sale)
		}
	}

	saleDay := func(s Sale) string { return s.CreatedAt.In(loc).Format(DayKeyFormat) }
	dailyTotals := Accumulate(weekSales, saleDay, func(s Sale) float64 { return s.Total })
	weekly := make([]DailyTotal, 0, len(dailyTotals))
	for _, bucket := range DayBuckets(weekSales, func(s Sale) time.Time { return s.CreatedAt }, loc) {
		weekly = append(weekly, DailyTotal{Date: bucket.Key, Total: dailyTotals[bucket.Key]})
	}

	saleMonth := func(s Sale) string { return s.CreatedAt.In(loc).Format(MonthKeyFormat) }
	monthTotals := Accumulate(sales, saleMonth, func(s Sale) float64 { return s.Total })
	monthly := make([]MonthlyTotal, 0, DefaultMonthlyWindow)
	for _, bucket := range MonthBuckets(anchor, DefaultMonthlyWindow) {
		monthly = append(monthly, MonthlyTotal{
			Month: bucket.Key,
			Label: bucket.Label,
			Total: monthTotals[bucket.Key],
		})
	}

	return Report{
		TodayReservationCount: todayReservations,
		TotalCustomers:        len(customers),
		TodaySalesTotal:       todayTotal,
		WeeklySeries:          weekly,
		MonthlySeries:         monthly,
		TopMenu:               TopMenuItems(sales, DefaultTopMenuSize),
		PaymentRatio:          PaymentTotals(sales),
		VisitorRatio:          ClassifyVisitors(reservations, monthStart),
		StatusRatio:           CountStatuses(reservations),
	}
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
