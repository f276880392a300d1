package handlers

import (
	"net/http"
	"strings"
	"time"

	"ramtoram-console-service/internal/utils"
	"ramtoram-console-service/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
)

type menuPayload struct {
	Name      *string  `json:"name"`
	Price     *float64 `json:"price"`
	Category  *string  `json:"category"`
	PhotoURL  *string  `json:"photoUrl"`
	IsActive  *bool    `json:"isActive"`
	SortOrder *int     `json:"sortOrder"`
}

func (h *Handler) MenuList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := `
		select id, name, price, category, photo_url, is_active, sort_order, created_at
		from menus
	`
	args := make([]any, 0, 1)
	if !parseBoolQuery(r, "includeInactive") {
		query += ` where is_active = true`
	}
	query += ` order by sort_order asc, name asc`

	rows, err := h.DB.Query(ctx, query, args...)
	if err != nil {
		h.Logger.Error("menu list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch menu")
		return
	}
	defer rows.Close()

	results := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id        int64
			name      pgtype.Text
			price     pgtype.Numeric
			category  pgtype.Text
			photoURL  pgtype.Text
			isActive  bool
			sortOrder pgtype.Int4
			createdAt time.Time
		)
		if err := rows.Scan(&id, &name, &price, &category, &photoURL, &isActive, &sortOrder, &createdAt); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read menu")
			return
		}
		results = append(results, map[string]any{
			"id":        id,
			"name":      name.String,
			"price":     utils.NumericToFloat64(price),
			"category":  category.String,
			"photoUrl":  photoURL.String,
			"isActive":  isActive,
			"sortOrder": sortOrder.Int32,
			"createdAt": createdAt,
		})
	}
	response.Success(w, results)
}

func (h *Handler) MenuCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req menuPayload
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	name := strings.TrimSpace(valueOr(req.Name))
	if name == "" {
		response.Error(w, http.StatusBadRequest, "NAME_REQUIRED", "Menu name is required")
		return
	}
	if req.Price == nil || *req.Price < 0 {
		response.Error(w, http.StatusBadRequest, "PRICE_REQUIRED", "Menu price is required")
		return
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	var id int64
	err := h.DB.QueryRow(ctx, `
		insert into menus (name, price, category, photo_url, is_active, sort_order, created_at)
		values ($1, $2, $3, $4, $5, $6, now())
		returning id
	`, name, *req.Price, trimmedPtr(req.Category), trimmedPtr(req.PhotoURL), isActive, sortOrder).Scan(&id)
	if err != nil {
		h.Logger.Error("menu create failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create menu item")
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"id": id}})
}

func (h *Handler) MenuUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid menu id")
		return
	}

	var req menuPayload
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	tag, err := h.DB.Exec(ctx, `
		update menus
		set name = coalesce($2, name),
		    price = coalesce($3, price),
		    category = coalesce($4, category),
		    photo_url = coalesce($5, photo_url),
		    is_active = coalesce($6, is_active),
		    sort_order = coalesce($7, sort_order)
		where id = $1
	`, id, trimmedPtr(req.Name), req.Price, trimmedPtr(req.Category), trimmedPtr(req.PhotoURL), req.IsActive, req.SortOrder)
	if err != nil {
		h.Logger.Error("menu update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update menu item")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Menu item not found")
		return
	}

	response.Success(w, map[string]any{"id": id})
}

func (h *Handler) MenuDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid menu id")
		return
	}

	var photoURL pgtype.Text
	_ = h.DB.QueryRow(ctx, `select photo_url from menus where id = $1`, id).Scan(&photoURL)

	tag, err := h.DB.Exec(ctx, `delete from menus where id = $1`, id)
	if err != nil {
		h.Logger.Error("menu delete failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete menu item")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Menu item not found")
		return
	}

	if h.Objects != nil && photoURL.String != "" {
		if err := h.Objects.DeleteURL(ctx, photoURL.String); err != nil {
			h.Logger.Warn("menu photo delete failed", zapError(err))
		}
	}

	response.Success(w, map[string]any{"id": id})
}
