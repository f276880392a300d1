package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ramtoram-console-service/internal/queue"
	"ramtoram-console-service/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
)

type reservationPayload struct {
	Name     *string    `json:"name"`
	Phone    *string    `json:"phone"`
	Datetime *time.Time `json:"datetime"`
	People   *int       `json:"people"`
	Memo     *string    `json:"memo"`
	Status   *string    `json:"status"`
}

var reservationStatuses = map[string]bool{
	"confirmed": true,
	"cancelled": true,
	"no-show":   true,
}

func (h *Handler) ReservationsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := readLimit(r, 100, 500)

	query := `
		select id, name, phone, datetime, people, memo, status, created_at
		from reservations
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
		clauses = append(clauses, "datetime >= $"+strconv.Itoa(len(args)))
		args = append(args, day.AddDate(0, 0, 1))
		clauses = append(clauses, "datetime < $"+strconv.Itoa(len(args)))
	}
	if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
		args = append(args, status)
		clauses = append(clauses, "status = $"+strconv.Itoa(len(args)))
	}
	if len(clauses) > 0 {
		query += " where " + strings.Join(clauses, " and ")
	}
	args = append(args, limit)
	query += " order by datetime desc limit $" + strconv.Itoa(len(args))

	rows, err := h.DB.Query(ctx, query, args...)
	if err != nil {
		h.Logger.Error("reservations list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch reservations")
		return
	}
	defer rows.Close()

	results := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id        int64
			name      pgtype.Text
			phone     pgtype.Text
			datetime  time.Time
			people    pgtype.Int4
			memo      pgtype.Text
			status    pgtype.Text
			createdAt time.Time
		)
		if err := rows.Scan(&id, &name, &phone, &datetime, &people, &memo, &status, &createdAt); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read reservations")
			return
		}
		results = append(results, map[string]any{
			"id":        id,
			"name":      name.String,
			"phone":     phone.String,
			"datetime":  datetime,
			"people":    people.Int32,
			"memo":      memo.String,
			"status":    status.String,
			"createdAt": createdAt,
		})
	}
	response.Success(w, results)
}

func (h *Handler) ReservationsCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req reservationPayload
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	name := strings.TrimSpace(valueOr(req.Name))
	if name == "" {
		response.Error(w, http.StatusBadRequest, "NAME_REQUIRED", "Reservation name is required")
		return
	}
	if req.Datetime == nil {
		response.Error(w, http.StatusBadRequest, "DATETIME_REQUIRED", "Reservation datetime is required")
		return
	}
	people := 1
	if req.People != nil && *req.People > 0 {
		people = *req.People
	}
	status := "confirmed"
	if req.Status != nil && *req.Status != "" {
		status = *req.Status
	}
	if !reservationStatuses[status] {
		response.Error(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be confirmed, cancelled or no-show")
		return
	}

	var id int64
	err := h.DB.QueryRow(ctx, `
		insert into reservations (name, phone, datetime, people, memo, status, created_at)
		values ($1, $2, $3, $4, $5, $6, now())
		returning id
	`, name, trimmedPtr(req.Phone), *req.Datetime, people, trimmedPtr(req.Memo), status).Scan(&id)
	if err != nil {
		h.Logger.Error("reservation create failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create reservation")
		return
	}

	h.publishReservationEvent(ctx, queue.ReservationCreatedKey, id, name, valueOr(trimmedPtr(req.Phone)), *req.Datetime)
	invalidateReportCache(reportCachePrefixDashboard, reportCachePrefixStatistics)
	response.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"id": id}})
}

func (h *Handler) ReservationsUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid reservation id")
		return
	}

	var req reservationPayload
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if req.Status != nil && !reservationStatuses[*req.Status] {
		response.Error(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be confirmed, cancelled or no-show")
		return
	}

	tag, err := h.DB.Exec(ctx, `
		update reservations
		set name = coalesce($2, name),
		    phone = coalesce($3, phone),
		    datetime = coalesce($4, datetime),
		    people = coalesce($5, people),
		    memo = coalesce($6, memo),
		    status = coalesce($7, status)
		where id = $1
	`, id, trimmedPtr(req.Name), trimmedPtr(req.Phone), req.Datetime, req.People, trimmedPtr(req.Memo), req.Status)
	if err != nil {
		h.Logger.Error("reservation update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update reservation")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
		return
	}

	invalidateReportCache(reportCachePrefixDashboard, reportCachePrefixStatistics)
	response.Success(w, map[string]any{"id": id})
}

// ReservationsUpdateStatus is the quick status toggle the reservation board
// uses; cancelled and no-show rows keep their slot in the list.
func (h *Handler) ReservationsUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid reservation id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &req); err != nil || !reservationStatuses[req.Status] {
		response.Error(w, http.StatusBadRequest, "INVALID_STATUS", "Status must be confirmed, cancelled or no-show")
		return
	}

	tag, err := h.DB.Exec(ctx, `update reservations set status = $2 where id = $1`, id, req.Status)
	if err != nil {
		h.Logger.Error("reservation status update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update reservation")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
		return
	}

	if req.Status == "cancelled" {
		var (
			name     pgtype.Text
			phone    pgtype.Text
			datetime time.Time
		)
		if err := h.DB.QueryRow(ctx, `select name, phone, datetime from reservations where id = $1`, id).Scan(&name, &phone, &datetime); err == nil {
			h.publishReservationEvent(ctx, queue.ReservationCancelledKey, id, name.String, phone.String, datetime)
		}
	}

	invalidateReportCache(reportCachePrefixDashboard, reportCachePrefixStatistics)
	response.Success(w, map[string]any{"id": id, "status": req.Status})
}

func (h *Handler) ReservationsDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid reservation id")
		return
	}

	tag, err := h.DB.Exec(ctx, `delete from reservations where id = $1`, id)
	if err != nil {
		h.Logger.Error("reservation delete failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete reservation")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
		return
	}

	invalidateReportCache(reportCachePrefixDashboard, reportCachePrefixStatistics)
	response.Success(w, map[string]any{"id": id})
}

// Marketing jobs are best effort; a dead broker never fails the write that
// triggered the event.
func (h *Handler) publishReservationEvent(ctx context.Context, routingKey string, id int64, name, phone string, datetime time.Time) {
	if h.Queue == nil {
		return
	}
	event := map[string]any{
		"reservationId": id,
		"name":          name,
		"phone":         phone,
		"datetime":      datetime,
		"occurredAt":    time.Now(),
	}
	if err := h.Queue.PublishJSON(ctx, queue.EventsExchange, routingKey, event); err != nil {
		h.Logger.Warn("reservation event publish failed", zapError(err))
	}
}
