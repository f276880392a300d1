package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var errMissingParam = errors.New("missing param")

func zapError(err error) zap.Field {
	return zap.Error(err)
}

func readPathInt64(r *http.Request, key string) (int64, error) {
	value := chi.URLParam(r, key)
	if value == "" {
		return 0, errMissingParam
	}
	var out int64
	_, err := fmt.Sscan(value, &out)
	return out, err
}

// readLimit clamps a ?limit query parameter into [1, max], defaulting when
// absent or unparseable.
func readLimit(r *http.Request, fallback, max int) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	if parsed < 1 {
		return 1
	}
	if parsed > max {
		return max
	}
	return parsed
}

func decodeBody(r *http.Request, dest any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dest)
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

func valueOr(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func parseBoolQuery(r *http.Request, key string) bool {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	return value == "true" || value == "1"
}
