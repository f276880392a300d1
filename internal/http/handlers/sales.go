package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ramtoram-console-service/internal/report"
	"ramtoram-console-service/internal/utils"
	"ramtoram-console-service/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
)

type salePayload struct {
	Phone         *string           `json:"phone"`
	MenuItems     []report.MenuLine `json:"menuItems"`
	Total         *float64          `json:"total"`
	PaymentMethod *string           `json:"paymentMethod"`
	Memo          *string           `json:"memo"`
	CreatedAt     *time.Time        `json:"createdAt"`
}

func (h *Handler) SalesList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := readLimit(r, 100, 500)

	query := `
		select id, phone, menu_items, total, payment_method, memo, created_at
		from sales
	`
	args := make([]any, 0, 3)
	clauses := make([]string, 0, 2)
	if date := strings.TrimSpace(r.URL.Query().Get("date")); date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, h.Reports.Location())
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_DATE", "Date must be formatted YYYY-MM-DD")
			return
		}
		args = append(args, day)
		clauses = append(clauses, "created_at >= $"+strconv.Itoa(len(args)))
		args = append(args, day.AddDate(0, 0, 1))
		clauses = append(clauses, "created_at < $"+strconv.Itoa(len(args)))
	}
	if method := strings.TrimSpace(r.URL.Query().Get("paymentMethod")); method != "" {
		args = append(args, method)
		clauses = append(clauses, "payment_method = $"+strconv.Itoa(len(args)))
	}
	if len(clauses) > 0 {
		query += " where " + strings.Join(clauses, " and ")
	}
	args = append(args, limit)
	query += " order by created_at desc limit $" + strconv.Itoa(len(args))

	rows, err := h.DB.Query(ctx, query, args...)
	if err != nil {
		h.Logger.Error("sales list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch sales")
		return
	}
	defer rows.Close()

	results := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id        int64
			phone     pgtype.Text
			menuItems []byte
			total     pgtype.Numeric
			method    pgtype.Text
			memo      pgtype.Text
			createdAt time.Time
		)
		if err := rows.Scan(&id, &phone, &menuItems, &total, &method, &memo, &createdAt); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read sales")
			return
		}
		lines := []report.MenuLine{}
		if len(menuItems) > 0 {
			_ = json.Unmarshal(menuItems, &lines)
		}
		results = append(results, map[string]any{
			"id":            id,
			"phone":         phone.String,
			"menuItems":     lines,
			"total":         utils.NumericToFloat64(total),
			"paymentMethod": method.String,
			"memo":          memo.String,
			"createdAt":     createdAt,
		})
	}
	response.Success(w, results)
}

func (h *Handler) SalesCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req salePayload
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if req.Total == nil || *req.Total < 0 {
		response.Error(w, http.StatusBadRequest, "TOTAL_REQUIRED", "Sale total is required")
		return
	}

	menuItems, err := json.Marshal(req.MenuItems)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid menu items")
		return
	}
	createdAt := time.Now()
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}

	var id int64
	err = h.DB.QueryRow(ctx, `
		insert into sales (phone, menu_items, total, payment_method, memo, created_at)
		values ($1, $2, $3, $4, $5, $6)
		returning id
	`, trimmedPtr(req.Phone), menuItems, *req.Total, trimmedPtr(req.PaymentMethod), trimmedPtr(req.Memo), createdAt).Scan(&id)
	if err != nil {
		h.Logger.Error("sale create failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create sale")
		return
	}

	invalidateReportCache(reportCachePrefixDashboard, reportCachePrefixStatistics)
	response.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"id": id}})
}

func (h *Handler) SalesUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid sale id")
		return
	}

	var req salePayload
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	var menuItems []byte
	if req.MenuItems != nil {
		menuItems, err = json.Marshal(req.MenuItems)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid menu items")
			return
		}
	}

	tag, err := h.DB.Exec(ctx, `
		update sales
		set phone = coalesce($2, phone),
		    menu_items = coalesce($3, menu_items),
		    total = coalesce($4, total),
		    payment_method = coalesce($5, payment_method),
		    memo = coalesce($6, memo),
		    created_at = coalesce($7, created_at)
		where id = $1
	`, id, trimmedPtr(req.Phone), menuItems, req.Total, trimmedPtr(req.PaymentMethod), trimmedPtr(req.Memo), req.CreatedAt)
	if err != nil {
		h.Logger.Error("sale update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update sale")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Sale not found")
		return
	}

	invalidateReportCache(reportCachePrefixDashboard, reportCachePrefixStatistics)
	response.Success(w, map[string]any{"id": id})
}

func (h *Handler) SalesDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid sale id")
		return
	}

	tag, err := h.DB.Exec(ctx, `delete from sales where id = $1`, id)
	if err != nil {
		h.Logger.Error("sale delete failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete sale")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Sale not found")
		return
	}

	invalidateReportCache(reportCachePrefixDashboard, reportCachePrefixStatistics)
	response.Success(w, map[string]any{"id": id})
}
