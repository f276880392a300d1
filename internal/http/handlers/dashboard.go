package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ramtoram-console-service/internal/report"
	"ramtoram-console-service/pkg/response"
)

// Dashboard serves the aggregated operations report. The report is built
// fresh from all three record collections or not at all: a failed fetch is a
// 503, never a report that silently shows zero activity.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	anchor := time.Now().In(h.Reports.Location())

	cacheKey := reportCacheKey(reportCachePrefixDashboard, anchor.Format("2006-01-02"))
	if cached, ok := getReportCache(cacheKey); ok {
		response.Success(w, cached)
		return
	}

	built, err := h.Reports.BuildReport(ctx, anchor)
	if err != nil {
		h.writeReportError(w, err)
		return
	}

	setReportCache(cacheKey, built, h.Config.ReportCacheTTL)
	response.Success(w, built)
}

func (h *Handler) writeReportError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// Client went away mid-build; the partial work is already discarded.
		return
	}

	var unavailable *report.SourceUnavailableError
	if errors.As(err, &unavailable) {
		h.Logger.Error("report source unavailable",
			zapError(err),
		)
		response.Error(w, http.StatusServiceUnavailable, "DATA_SOURCE_UNAVAILABLE",
			"The "+unavailable.Source+" data source is unavailable; the report cannot be built")
		return
	}

	h.Logger.Error("report build failed", zapError(err))
	response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build report")
}
