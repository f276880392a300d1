package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"ramtoram-console-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Marketing scenarios the worker knows how to send. Toggling one on or off
// here only gates dispatch; events keep flowing either way.
var marketingScenarios = map[string]bool{
	"reservation-confirmed": true,
	"reservation-cancelled": true,
}

type marketingSettingPayload struct {
	Enabled  *bool   `json:"enabled"`
	Template *string `json:"template"`
}

func (h *Handler) MarketingSettingsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.Query(ctx, `
		select scenario, enabled, template, updated_at
		from marketing_settings
		order by scenario asc
	`)
	if err != nil {
		h.Logger.Error("marketing settings list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch marketing settings")
		return
	}
	defer rows.Close()

	results := make([]map[string]any, 0)
	for rows.Next() {
		var (
			scenario  string
			enabled   bool
			template  pgtype.Text
			updatedAt time.Time
		)
		if err := rows.Scan(&scenario, &enabled, &template, &updatedAt); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read marketing settings")
			return
		}
		results = append(results, map[string]any{
			"scenario":  scenario,
			"enabled":   enabled,
			"template":  template.String,
			"updatedAt": updatedAt,
		})
	}
	response.Success(w, results)
}

func (h *Handler) MarketingSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scenario := strings.TrimSpace(chi.URLParam(r, "scenario"))
	if !marketingScenarios[scenario] {
		response.Error(w, http.StatusNotFound, "UNKNOWN_SCENARIO", "Unknown marketing scenario")
		return
	}

	var req marketingSettingPayload
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	_, err := h.DB.Exec(ctx, `
		insert into marketing_settings (scenario, enabled, template, updated_at)
		values ($1, coalesce($2, false), coalesce($3, ''), now())
		on conflict (scenario) do update
		set enabled = coalesce($2, marketing_settings.enabled),
		    template = coalesce($3, marketing_settings.template),
		    updated_at = now()
	`, scenario, req.Enabled, trimmedPtr(req.Template))
	if err != nil {
		h.Logger.Error("marketing setting update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update marketing setting")
		return
	}

	response.Success(w, map[string]any{"scenario": scenario})
}

func (h *Handler) MarketingLogsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := readLimit(r, 100, 500)

	query := `
		select id, scenario, phone, message, status, created_at
		from marketing_logs
	`
	args := make([]any, 0, 2)
	if scenario := strings.TrimSpace(r.URL.Query().Get("scenario")); scenario != "" {
		args = append(args, scenario)
		query += ` where scenario = $1`
	}
	args = append(args, limit)
	query += ` order by created_at desc limit $` + strconv.Itoa(len(args))

	rows, err := h.DB.Query(ctx, query, args...)
	if err != nil {
		h.Logger.Error("marketing logs list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch marketing logs")
		return
	}
	defer rows.Close()

	results := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id        int64
			scenario  string
			phone     pgtype.Text
			message   pgtype.Text
			status    string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &scenario, &phone, &message, &status, &createdAt); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read marketing logs")
			return
		}
		results = append(results, map[string]any{
			"id":        id,
			"scenario":  scenario,
			"phone":     phone.String,
			"message":   message.String,
			"status":    status,
			"createdAt": createdAt,
		})
	}
	response.Success(w, results)
}
