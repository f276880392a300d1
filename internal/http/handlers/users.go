package handlers

import (
	"net/http"
	"strings"
	"time"

	"ramtoram-console-service/internal/auth"
	"ramtoram-console-service/internal/middleware"
	"ramtoram-console-service/pkg/response"

	"golang.org/x/crypto/bcrypt"
)

type userPayload struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
}

func (h *Handler) UsersList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.DB.Query(ctx, `
		select id, username, name, role, created_at
		from users
		order by created_at asc
	`)
	if err != nil {
		h.Logger.Error("users list failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch users")
		return
	}
	defer rows.Close()

	results := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id        int64
			username  string
			name      string
			role      string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &username, &name, &role, &createdAt); err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read users")
			return
		}
		results = append(results, map[string]any{
			"id":        id,
			"username":  username,
			"name":      name,
			"role":      role,
			"createdAt": createdAt,
		})
	}
	response.Success(w, results)
}

func (h *Handler) UsersCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req userPayload
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	username := strings.TrimSpace(valueOr(req.Username))
	password := valueOr(req.Password)
	role := strings.TrimSpace(valueOr(req.Role))
	if username == "" || password == "" {
		response.Error(w, http.StatusBadRequest, "CREDENTIALS_REQUIRED", "Username and password are required")
		return
	}
	if len(password) < 8 {
		response.Error(w, http.StatusBadRequest, "PASSWORD_TOO_SHORT", "Password must be at least 8 characters")
		return
	}
	if !auth.ValidRole(role) {
		response.Error(w, http.StatusBadRequest, "INVALID_ROLE", "Role must be admin or staff")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.Logger.Error("password hash failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user")
		return
	}

	var id int64
	err = h.DB.QueryRow(ctx, `
		insert into users (username, password_hash, name, role, created_at)
		values ($1, $2, $3, $4, now())
		returning id
	`, username, string(hash), strings.TrimSpace(valueOr(req.Name)), role).Scan(&id)
	if err != nil {
		response.Error(w, http.StatusConflict, "USERNAME_TAKEN", "Username already exists")
		return
	}

	response.JSON(w, http.StatusCreated, map[string]any{"success": true, "data": map[string]any{"id": id}})
}

func (h *Handler) UsersUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid user id")
		return
	}

	var req userPayload
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if req.Role != nil && !auth.ValidRole(*req.Role) {
		response.Error(w, http.StatusBadRequest, "INVALID_ROLE", "Role must be admin or staff")
		return
	}

	var passwordHash *string
	if req.Password != nil && *req.Password != "" {
		if len(*req.Password) < 8 {
			response.Error(w, http.StatusBadRequest, "PASSWORD_TOO_SHORT", "Password must be at least 8 characters")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.Logger.Error("password hash failed", zapError(err))
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user")
			return
		}
		value := string(hash)
		passwordHash = &value
	}

	tag, err := h.DB.Exec(ctx, `
		update users
		set name = coalesce($2, name),
		    role = coalesce($3, role),
		    password_hash = coalesce($4, password_hash)
		where id = $1
	`, id, trimmedPtr(req.Name), req.Role, passwordHash)
	if err != nil {
		h.Logger.Error("user update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update user")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	response.Success(w, map[string]any{"id": id})
}

func (h *Handler) UsersDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid user id")
		return
	}

	// An admin cannot remove their own account.
	if session, ok := middleware.GetSession(ctx); ok && session.UserID == id {
		response.Error(w, http.StatusBadRequest, "SELF_DELETE", "You cannot delete your own account")
		return
	}

	tag, err := h.DB.Exec(ctx, `delete from users where id = $1`, id)
	if err != nil {
		h.Logger.Error("user delete failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete user")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}

	response.Success(w, map[string]any{"id": id})
}
