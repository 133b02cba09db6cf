package media

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// fallbackStore writes to S3 first and falls back to the local store.
type fallbackStore struct {
	s3Store   Store
	fileStore Store
	s3Enabled bool
	logger    zerolog.Logger
}

// NewFallbackStore creates a store that tries S3 first, then the local
// directory. If s3Store is nil or disabled only the local store is used.
func NewFallbackStore(s3Store, fileStore Store, s3Enabled bool, logger zerolog.Logger) Store {
	return &fallbackStore{
		s3Store:   s3Store,
		fileStore: fileStore,
		s3Enabled: s3Enabled,
		logger:    logger.With().Str("component", "fallback-media-store").Logger(),
	}
}

func (s *fallbackStore) useS3() bool {
	return s.s3Enabled && s.s3Store != nil
}

// Put stores the object in S3, or locally when S3 is off or failing.
func (s *fallbackStore) Put(ctx context.Context, name string, body []byte, contentType string) (string, error) {
	if s.useS3() {
		url, err := s.s3Store.Put(ctx, name, body, contentType)
		if err == nil {
			return url, nil
		}

		s.logger.Warn().
			Err(err).
			Str("name", name).
			Msg("failed to store image in S3, falling back to local file system")
	} else {
		s.logger.Debug().
			Bool("s3_enabled", s.s3Enabled).
			Bool("has_s3_store", s.s3Store != nil).
			Msg("S3 disabled or not configured, using local file system")
	}

	return s.fileStore.Put(ctx, name, body, contentType)
}

// Delete asks both stores; each ignores URLs it does not own.
func (s *fallbackStore) Delete(ctx context.Context, url string) error {
	var errs []error
	if s.useS3() {
		errs = append(errs, s.s3Store.Delete(ctx, url))
	}
	errs = append(errs, s.fileStore.Delete(ctx, url))
	return errors.Join(errs...)
}
