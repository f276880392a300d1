package handlers

import (
	"net/http"
	"strings"
	"time"

	"ramtoram-console-service/internal/report"
	"ramtoram-console-service/pkg/response"
)

// Statistics serves the full report plus the long-range count series the
// statistics screen charts: reservations per month and newly registered
// customers per month, over the same dense monthly window.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc := h.Reports.Location()

	anchor := time.Now().In(loc)
	if raw := strings.TrimSpace(r.URL.Query().Get("month")); raw != "" {
		parsed, err := time.ParseInLocation(report.MonthKeyFormat, raw, loc)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_MONTH", "Month must be formatted YYYY-MM")
			return
		}
		// Anchor at the end of the requested month so the window covers it.
		anchor = parsed.AddDate(0, 1, 0).Add(-time.Second)
	}

	cacheKey := reportCacheKey(reportCachePrefixStatistics, anchor.Format("2006-01-02"))
	if cached, ok := getReportCache(cacheKey); ok {
		response.Success(w, cached)
		return
	}

	// One barrier fetch feeds both the report and the extra count series, so
	// everything on the screen reflects the same snapshot.
	customers, reservations, sales, err := h.Reports.Collections(ctx, anchor)
	if err != nil {
		h.writeReportError(w, err)
		return
	}

	built := report.Build(anchor, loc, customers, reservations, sales)

	buckets := report.MonthBuckets(anchor.In(loc), report.DefaultMonthlyWindow)
	reservationCounts := report.CountBy(reservations, func(record report.Reservation) string {
		return record.Datetime.In(loc).Format(report.MonthKeyFormat)
	})
	windowStart := h.Reports.WindowStart(anchor)
	newCustomerCounts := report.CountBy(customers, func(record report.Customer) string {
		if record.CreatedAt.Before(windowStart) {
			return ""
		}
		return record.CreatedAt.In(loc).Format(report.MonthKeyFormat)
	})

	monthlyReservations := make([]map[string]any, 0, len(buckets))
	monthlyNewCustomers := make([]map[string]any, 0, len(buckets))
	for _, bucket := range buckets {
		monthlyReservations = append(monthlyReservations, map[string]any{
			"month": bucket.Key,
			"label": bucket.Label,
			"count": reservationCounts[bucket.Key],
		})
		monthlyNewCustomers = append(monthlyNewCustomers, map[string]any{
			"month": bucket.Key,
			"label": bucket.Label,
			"count": newCustomerCounts[bucket.Key],
		})
	}

	payload := map[string]any{
		"report":              built,
		"monthlyReservations": monthlyReservations,
		"monthlyNewCustomers": monthlyNewCustomers,
	}

	setReportCache(cacheKey, payload, h.Config.ReportCacheTTL)
	response.Success(w, payload)
}
