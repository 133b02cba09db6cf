package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// LocalPrefix is the directory, relative to the media root, that holds menu images.
const LocalPrefix = "menu/"

// fileStore implements Store on a local directory served at baseURL.
type fileStore struct {
	dir     string
	baseURL string
	logger  zerolog.Logger
}

// NewFileStore creates a store that writes under dir and builds URLs from baseURL.
func NewFileStore(dir, baseURL string, logger zerolog.Logger) Store {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &fileStore{
		dir:     dir,
		baseURL: baseURL,
		logger:  logger.With().Str("component", "file-media-store").Logger(),
	}
}

// Put writes body to dir/menu/name.
func (s *fileStore) Put(ctx context.Context, name string, body []byte, contentType string) (string, error) {
	rel := LocalPrefix + name
	full := filepath.Join(s.dir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(full, body, 0o644); err != nil {
		s.logger.Error().Err(err).Str("file", full).Msg("failed to write image")
		return "", fmt.Errorf("failed to write image %s: %w", full, err)
	}

	return s.baseURL + rel, nil
}

// Delete removes the file behind url. URLs outside baseURL, or resolving
// outside dir, are ignored.
func (s *fileStore) Delete(ctx context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL)
	if !ok || rel == "" {
		return nil
	}

	root, err := filepath.Abs(s.dir)
	if err != nil {
		return err
	}
	full, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return err
	}
	if !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return nil
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete image %s: %w", full, err)
	}
	return nil
}
