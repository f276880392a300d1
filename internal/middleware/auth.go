package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"ramtoram-console-service/internal/auth"

	"github.com/jackc/pgx/v5/pgxpool"
)

type contextKey string

const sessionContextKey contextKey = "session"

// Session is the explicit per-request session object. Handlers read it from
// the request context; there is no process-wide auth state.
type Session struct {
	UserID   int64
	Username string
	Role     auth.UserRole
}

func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

func GetSession(ctx context.Context) (*Session, bool) {
	value := ctx.Value(sessionContextKey)
	if value == nil {
		return nil, false
	}
	session, ok := value.(*Session)
	return session, ok
}

// SessionAuth verifies the bearer token and confirms the account still
// exists before admitting the request. The role carried in the token is
// refreshed from the users table so revoked or demoted accounts drop out on
// their next request.
func SessionAuth(db *pgxpool.Pool, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ParseBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			claims, err := auth.VerifyAccessToken(token, jwtSecret)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			var role string
			err = db.QueryRow(r.Context(), `select role from users where id = $1`, claims.UserID).Scan(&role)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Account no longer active")
				return
			}

			session := &Session{
				UserID:   claims.UserID,
				Username: claims.Username,
				Role:     auth.UserRole(role),
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireSection gates a route subtree on the session role's access to one
// console section.
func RequireSection(section string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSession(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "Session required")
				return
			}
			if !auth.RoleAllows(session.Role, section) {
				writeAuthError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	code := "UNAUTHORIZED"
	if status == http.StatusForbidden {
		code = "FORBIDDEN"
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   code,
		"message": strings.TrimSpace(message),
	})
}
