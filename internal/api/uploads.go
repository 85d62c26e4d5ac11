package api

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/pawmart/pawmart/internal/assets"
	"github.com/pawmart/pawmart/internal/images"
	"github.com/pawmart/pawmart/internal/metrics"
)

// maxUploadBytes caps the multipart body; larger uploads get a 413.
const maxUploadBytes = 10 << 20

// uploadsHandler accepts image uploads and writes the processed variants to
// the asset store.
type uploadsHandler struct {
	assets assets.Store
}

// Create accepts one image in the "image" multipart field, re-encodes it,
// stores the bounded original plus a thumbnail, and returns both locators.
// POST /api/uploads
//
// @Summary      Upload an image
// @Tags         Uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "Image file"
// @Success      201  {object}  UploadResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      413  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /uploads [post]
func (h *uploadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, _, err := r.FormFile("image")
	if err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large", "TOO_LARGE")
			return
		}
		writeError(w, http.StatusBadRequest, "image file is required", "BAD_REQUEST")
		return
	}
	defer file.Close()

	processed, err := images.Process(file)
	if err != nil {
		if errors.Is(err, images.ErrNotAnImage) {
			writeError(w, http.StatusBadRequest, "file is not a supported image", "BAD_REQUEST")
			return
		}
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large", "TOO_LARGE")
			return
		}
		log.Printf("api: process upload: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	id := uuid.New().String()
	url, err := h.assets.Put(r.Context(), id+".jpg", "image/jpeg",
		bytes.NewReader(processed.Original), int64(len(processed.Original)))
	if err != nil {
		log.Printf("api: store upload: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	thumbURL, err := h.assets.Put(r.Context(), id+"_t.jpg", "image/jpeg",
		bytes.NewReader(processed.Thumbnail), int64(len(processed.Thumbnail)))
	if err != nil {
		log.Printf("api: store thumbnail: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.UploadsTotal.Inc()
	writeJSON(w, http.StatusCreated, UploadResponse{URL: url, ThumbnailURL: thumbURL})
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
