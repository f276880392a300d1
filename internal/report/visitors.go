package report

import "time"

// ClassifyVisitors groups reservations by phone and classifies each distinct
// phone as new or repeat for the period starting at periodStart. The decision
// depends only on the earliest datetime across the entire supplied history:
// a first-ever visit at or after periodStart means new, anything earlier
// means repeat, regardless of how recently the customer came back.
// Reservations without a phone cannot be attributed and are left out.
func ClassifyVisitors(reservations []Reservation, periodStart time.Time) VisitorRatio {
	firstVisit := make(map[string]time.Time)
	for _, reservation := range reservations {
		if reservation.Phone == "" {
			continue
		}
		earliest, seen := firstVisit[reservation.Phone]
		if !seen || reservation.Datetime.Before(earliest) {
			firstVisit[reservation.Phone] = reservation.Datetime
		}
	}

	var ratio VisitorRatio
	for _, earliest := range firstVisit {
		if earliest.Before(periodStart) {
			ratio.Repeat++
		} else {
			ratio.New++
		}
	}
	return ratio
}
