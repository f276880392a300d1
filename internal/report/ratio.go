package report

// CountStatuses tallies reservations by status. An empty or unrecognized
// status counts as confirmed, matching how the console stores walk-in
// bookings that were never cancelled.
func CountStatuses(reservations []Reservation) StatusCounts {
	var counts StatusCounts
	for _, reservation := range reservations {
		switch reservation.Status {
		case StatusCancelled:
			counts.Cancelled++
		case StatusNoShow:
			counts.NoShow++
		default:
			counts.Confirmed++
		}
	}
	return counts
}

// PaymentTotals sums sale totals per distinct payment_method string observed
// in the input. The method set is dynamic: methods with no sales in the
// window are simply absent. Output order is first-encountered, which keeps
// the result deterministic for identical input.
func PaymentTotals(sales []Sale) []MethodTotal {
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, sale := range sales {
		if _, ok := totals[sale.PaymentMethod]; !ok {
			order = append(order, sale.PaymentMethod)
		}
		totals[sale.PaymentMethod] += sale.Total
	}

	out := make([]MethodTotal, 0, len(order))
	for _, method := range order {
		out = append(out, MethodTotal{Method: method, Total: totals[method]})
	}
	return out
}
