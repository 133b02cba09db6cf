package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"mechanical-burger/internal/media"
	"mechanical-burger/internal/model"

	"github.com/rs/zerolog"
)

// ImageUploader stores menu images.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string)
}

// MediaHandler handles menu image uploads.
type MediaHandler struct {
	uploader ImageUploader
	logger   zerolog.Logger
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(uploader ImageUploader, logger zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		uploader: uploader,
		logger:   logger.With().Str("handler", "media").Logger(),
	}
}

type imageResponse struct {
	URL string `json:"url"`
}

// Upload handles POST /api/admin/images requests with a multipart "image" field.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageSize+64<<10)

	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDomainError(w, model.ErrMediaTooLarge, h.logger)
			return
		}
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, "image file is required", h.logger)
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, imageResponse{URL: url})
}

// Delete handles DELETE /api/admin/images?url= requests. Deletion is best effort.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidationFailed, "url is required", h.logger)
		return
	}

	h.uploader.Delete(r.Context(), url)
	w.WriteHeader(http.StatusNoContent)
}
