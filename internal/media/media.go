// Package media stores menu images in S3 or on the local disk.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"regexp"
	"strconv"
	"time"

	"mechanical-burger/internal/model"

	"github.com/rs/zerolog"
)

// MaxImageSize is the upload limit in bytes.
const MaxImageSize = 5 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Store persists objects and returns their public URL.
type Store interface {
	Put(ctx context.Context, name string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Uploader validates images and names them before handing them to a Store.
type Uploader struct {
	store  Store
	now    func() time.Time
	logger zerolog.Logger
}

// NewUploader creates an uploader over store.
func NewUploader(store Store, logger zerolog.Logger) *Uploader {
	return &Uploader{
		store:  store,
		now:    time.Now,
		logger: logger.With().Str("component", "media-uploader").Logger(),
	}
}

// Upload reads at most MaxImageSize bytes from r, checks the content is a
// JPEG, PNG or WebP image and stores it as "<unix-ms>_<filename>".
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(body) > MaxImageSize {
		return "", model.ErrMediaTooLarge
	}

	contentType := http.DetectContentType(body)
	if !allowedTypes[contentType] {
		u.logger.Warn().Str("filename", filename).Str("content_type", contentType).Msg("rejected image upload")
		return "", model.ErrUnsupportedMedia
	}

	name := ObjectName(u.now(), filename)
	url, err := u.store.Put(ctx, name, body, contentType)
	if err != nil {
		return "", err
	}

	u.logger.Info().
		Str("name", name).
		Str("content_type", contentType).
		Int("size", len(body)).
		Str("url", url).
		Msg("image uploaded")

	return url, nil
}

// Delete removes a previously uploaded image. Failures are logged only.
func (u *Uploader) Delete(ctx context.Context, url string) {
	if err := u.store.Delete(ctx, url); err != nil {
		u.logger.Warn().Err(err).Str("url", url).Msg("failed to delete image")
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectName builds the stored name from the upload time and a cleaned
// version of the client's filename.
func ObjectName(t time.Time, filename string) string {
	base := unsafeChars.ReplaceAllString(path.Base(filename), "_")
	if base == "" || base == "." || base == "_" {
		base = "image"
	}
	return strconv.FormatInt(t.UnixMilli(), 10) + "_" + base
}

func newReader(body []byte) io.Reader {
	return bytes.NewReader(body)
}
