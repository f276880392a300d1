package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"ramtoram-console-service/internal/report"
	"ramtoram-console-service/pkg/response"

	"github.com/phpdave11/gofpdf"
)

// ReportExport renders the current report as a downloadable PDF. When an
// object store is configured the file is also archived there and the public
// URL is returned in a header.
func (h *Handler) ReportExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	anchor := time.Now().In(h.Reports.Location())

	built, err := h.Reports.BuildReport(ctx, anchor)
	if err != nil {
		h.writeReportError(w, err)
		return
	}

	buf, err := renderReportPDF(anchor, built)
	if err != nil {
		h.Logger.Error("report pdf render failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render report")
		return
	}

	filename := "report-" + anchor.Format("2006-01-02") + ".pdf"
	if h.Objects != nil {
		key := "reports/" + filename
		if url, err := h.Objects.PutObject(ctx, key, buf.Bytes(), "application/pdf", "private, max-age=0"); err != nil {
			h.Logger.Warn("report archive upload failed", zapError(err))
		} else {
			w.Header().Set("X-Archive-Url", url)
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func renderReportPDF(anchor time.Time, data *report.Report) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, "Operations Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, anchor.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Today", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Reservations: %d", data.TodayReservationCount), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Sales: %.0f", data.TodaySalesTotal), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Customers on record: %d", data.TotalCustomers), "", 1, "L", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Monthly Sales", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, month := range data.MonthlySeries {
		pdf.CellFormat(0, 5, fmt.Sprintf("%s: %.0f", month.Label, month.Total), "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Top Menu", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	if len(data.TopMenu) == 0 {
		pdf.CellFormat(0, 5, "No sales recorded", "", 1, "L", false, 0, "")
	}
	for i, item := range data.TopMenu {
		pdf.CellFormat(0, 5, fmt.Sprintf("%d. %s: %.0f", i+1, item.Item, item.Total), "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Visitors", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("New: %d  Repeat: %d", data.VisitorRatio.New, data.VisitorRatio.Repeat), "", 1, "L", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Reservation Status", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Confirmed: %d  Cancelled: %d  No-show: %d",
		data.StatusRatio.Confirmed, data.StatusRatio.Cancelled, data.StatusRatio.NoShow), "", 1, "L", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Payment Methods", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, method := range data.PaymentRatio {
		label := method.Method
		if label == "" {
			label = "(unset)"
		}
		pdf.CellFormat(0, 5, fmt.Sprintf("%s: %.0f", label, method.Total), "", 1, "L", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
