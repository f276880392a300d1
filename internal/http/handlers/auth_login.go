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

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		response.Error(w, http.StatusBadRequest, "CREDENTIALS_REQUIRED", "Username and password are required")
		return
	}

	var (
		userID       int64
		passwordHash string
		name         string
		role         string
	)
	err := h.DB.QueryRow(ctx, `
		select id, password_hash, name, role
		from users
		where username = $1
	`, req.Username).Scan(&userID, &passwordHash, &name, &role)
	if err != nil {
		// Same response for unknown user and bad password.
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)) != nil {
		response.Error(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
		return
	}

	expiry := time.Duration(h.Config.JWTExpirySeconds) * time.Second
	token, err := auth.IssueAccessToken(userID, req.Username, auth.UserRole(role), h.Config.JWTSecret, expiry)
	if err != nil {
		h.Logger.Error("issue token failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token")
		return
	}

	response.Success(w, map[string]any{
		"token":     token,
		"expiresAt": time.Now().Add(expiry),
		"user": map[string]any{
			"id":       userID,
			"username": req.Username,
			"name":     name,
			"role":     role,
		},
	})
}

// Me returns the session behind the presented token, so the console can
// restore its signed-in state after a reload.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Session required")
		return
	}

	var name string
	if err := h.DB.QueryRow(r.Context(), `select name from users where id = $1`, session.UserID).Scan(&name); err != nil {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Account no longer active")
		return
	}

	response.Success(w, map[string]any{
		"id":       session.UserID,
		"username": session.Username,
		"name":     name,
		"role":     session.Role,
	})
}
