package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ramtoram-console-service/internal/utils"
	"ramtoram-console-service/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
)

type customerPayload struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Memo  *string `json:"memo"`
}

func (h *Handler) CustomersList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := readLimit(r, 100, 500)

	query := `
		select id, name, phone, memo, created_at
		from customers
	`
	args := make([]any, 0, 2)
	if search := strings.TrimSpace(r.URL.Query().Get("q")); search != "" {
		query += ` where name ilike '%' || $1 || '%' or phone like '%' || $1 || '%'`
		args = append(args, search)
	}
	query += ` order by created_at desc limit $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	rows, err := h.DB.Query(ctx, query, args...)
	if err != nil {
		h.Logger.Error("customers list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch customers")
		return
	}
	defer rows.Close()

	results := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id        int64
			name      pgtype.Text
			phone     pgtype.Text
			memo      pgtype.Text
			createdAt time.Time
		)
		if err := rows.Scan(&id, &name, &phone, &memo, &createdAt); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read customers")
			return
		}
		results = append(results, map[string]any{
			"id":        id,
			"name":      name.String,
			"phone":     phone.String,
			"memo":      memo.String,
			"createdAt": createdAt,
		})
	}
	response.Success(w, results)
}

func (h *Handler) CustomersCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req customerPayload
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	name := strings.TrimSpace(valueOr(req.Name))
	if name == "" {
		response.Error(w, http.StatusBadRequest, "NAME_REQUIRED", "Customer name is required")
		return
	}

	var id int64
	err := h.DB.QueryRow(ctx, `
		insert into customers (name, phone, memo, created_at)
		values ($1, $2, $3, now())
		returning id
	`, name, trimmedPtr(req.Phone), trimmedPtr(req.Memo)).Scan(&id)
	if err != nil {
		h.Logger.Error("customer create failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create customer")
		return
	}

	invalidateReportCache(reportCachePrefixDashboard, reportCachePrefixStatistics)
	response.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"id": id}})
}

// CustomersDetail joins the customer row with their reservation and sale
// history. Records link by phone number, so a customer without one has no
// history to show.
func (h *Handler) CustomersDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid customer id")
		return
	}

	var (
		name      pgtype.Text
		phone     pgtype.Text
		memo      pgtype.Text
		createdAt time.Time
	)
	err = h.DB.QueryRow(ctx, `
		select name, phone, memo, created_at from customers where id = $1
	`, id).Scan(&name, &phone, &memo, &createdAt)
	if err != nil {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Customer not found")
		return
	}

	detail := map[string]any{
		"id":           id,
		"name":         name.String,
		"phone":        phone.String,
		"memo":         memo.String,
		"createdAt":    createdAt,
		"reservations": []map[string]any{},
		"sales":        []map[string]any{},
	}

	if phone.String != "" {
		reservations, err := h.customerReservations(ctx, phone.String)
		if err != nil {
			h.Logger.Error("customer reservations failed", zapError(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch customer history")
			return
		}
		detail["reservations"] = reservations

		sales, err := h.customerSales(ctx, phone.String)
		if err != nil {
			h.Logger.Error("customer sales failed", zapError(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch customer history")
			return
		}
		detail["sales"] = sales
	}

	response.Success(w, detail)
}

func (h *Handler) customerReservations(ctx context.Context, phone string) ([]map[string]any, error) {
	rows, err := h.DB.Query(ctx, `
		select id, datetime, people, status, memo
		from reservations
		where phone = $1
		order by datetime desc
		limit 50
	`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id       int64
			datetime time.Time
			people   pgtype.Int4
			status   pgtype.Text
			memo     pgtype.Text
		)
		if err := rows.Scan(&id, &datetime, &people, &status, &memo); err != nil {
			return nil, err
		}
		results = append(results, map[string]any{
			"id":       id,
			"datetime": datetime,
			"people":   people.Int32,
			"status":   status.String,
			"memo":     memo.String,
		})
	}
	return results, rows.Err()
}

func (h *Handler) customerSales(ctx context.Context, phone string) ([]map[string]any, error) {
	rows, err := h.DB.Query(ctx, `
		select s.id, s.total, s.payment_method, s.created_at
		from sales s
		where s.phone = $1
		order by s.created_at desc
		limit 50
	`, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id        int64
			total     pgtype.Numeric
			method    pgtype.Text
			createdAt time.Time
		)
		if err := rows.Scan(&id, &total, &method, &createdAt); err != nil {
			return nil, err
		}
		results = append(results, map[string]any{
			"id":            id,
			"total":         utils.NumericToFloat64(total),
			"paymentMethod": method.String,
			"createdAt":     createdAt,
		})
	}
	return results, rows.Err()
}

func (h *Handler) CustomersUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid customer id")
		return
	}

	var req customerPayload
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	tag, err := h.DB.Exec(ctx, `
		update customers
		set name = coalesce($2, name),
		    phone = coalesce($3, phone),
		    memo = coalesce($4, memo)
		where id = $1
	`, id, trimmedPtr(req.Name), trimmedPtr(req.Phone), trimmedPtr(req.Memo))
	if err != nil {
		h.Logger.Error("customer update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update customer")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Customer not found")
		return
	}

	invalidateReportCache(reportCachePrefixDashboard, reportCachePrefixStatistics)
	response.Success(w, map[string]any{"id": id})
}

func (h *Handler) CustomersDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid customer id")
		return
	}

	tag, err := h.DB.Exec(ctx, `delete from customers where id = $1`, id)
	if err != nil {
		h.Logger.Error("customer delete failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete customer")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Customer not found")
		return
	}

	invalidateReportCache(reportCachePrefixDashboard, reportCachePrefixStatistics)
	response.Success(w, map[string]any{"id": id})
}
