package handlers

import (
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ramtoram-console-service/internal/utils"
	"ramtoram-console-service/pkg/response"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	menuPhotoMaxSide   = 1200
	menuPhotoThumbSize = 300
)

// MenuPhotoUpload accepts a multipart image, normalizes it to JPEG with a
// square thumbnail, and stores both under the menu item's key prefix.
func (h *Handler) MenuPhotoUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.Objects == nil {
		response.Error(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Object storage is not configured")
		return
	}

	menuID, err := readPathInt64(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_ID", "Invalid menu id")
		return
	}

	var oldPhotoURL string
	{
		var current pgtype.Text
		if err := h.DB.QueryRow(ctx, `select photo_url from menus where id = $1`, menuID).Scan(&current); err != nil {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", "Menu item not found")
			return
		}
		oldPhotoURL = current.String
	}

	data, readErr := h.readImageUpload(r, "photo")
	if readErr != nil {
		response.Error(w, readErr.status, readErr.code, readErr.message)
		return
	}

	full, _, err := utils.EncodeJpegFitInside(data, menuPhotoMaxSide, 85)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_IMAGE", "Could not decode the uploaded image")
		return
	}
	thumb, _, err := utils.EncodeJpegCoverSquare(data, menuPhotoThumbSize, 80)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "INVALID_IMAGE", "Could not decode the uploaded image")
		return
	}

	suffix := randomSuffix()
	baseKey := fmt.Sprintf("menus/%d/photo-%s", menuID, suffix)
	photoURL, err := h.Objects.PutObject(ctx, baseKey+".jpg", full, "image/jpeg", "public, max-age=86400")
	if err != nil {
		h.Logger.Error("menu photo upload failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store photo")
		return
	}
	thumbURL, err := h.Objects.PutObject(ctx, baseKey+"-thumb.jpg", thumb, "image/jpeg", "public, max-age=86400")
	if err != nil {
		h.Logger.Error("menu thumb upload failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store photo")
		return
	}

	if _, err := h.DB.Exec(ctx, `update menus set photo_url = $2 where id = $1`, menuID, photoURL); err != nil {
		h.Logger.Error("menu photo url update failed", zapError(err))
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to store photo")
		return
	}

	if oldPhotoURL != "" && oldPhotoURL != photoURL {
		if err := h.Objects.DeleteURL(ctx, oldPhotoURL); err != nil {
			h.Logger.Warn("stale menu photo delete failed", zapError(err))
		}
	}

	response.Success(w, map[string]any{
		"id":       menuID,
		"photoUrl": photoURL,
		"thumbUrl": thumbURL,
	})
}

type uploadError struct {
	status  int
	code    string
	message string
}

func (h *Handler) readImageUpload(r *http.Request, field string) ([]byte, *uploadError) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, &uploadError{http.StatusBadRequest, "FILE_REQUIRED", "An image file is required"}
	}
	defer file.Close()

	maxBytes := h.Config.MaxFileSizeBytes
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, &uploadError{http.StatusBadRequest, "READ_FAILED", "Failed to read the uploaded file"}
	}
	if int64(len(data)) > maxBytes {
		return nil, &uploadError{http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
			fmt.Sprintf("File size must be less than %dMB", maxBytes/(1024*1024))}
	}

	contentType := strings.TrimSpace(header.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = utils.DetectContentType(data)
	}
	if !utils.ValidateImageContentType(strings.ToLower(contentType)) {
		return nil, &uploadError{http.StatusBadRequest, "INVALID_FILE_TYPE", "Please upload an image file"}
	}
	return data, nil
}

func randomSuffix() string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%x", b)
}
