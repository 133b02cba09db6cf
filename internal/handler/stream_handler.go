package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"mechanical-burger/internal/feed"
	"mechanical-burger/internal/gate"
	"mechanical-burger/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// StreamHandler serves every collection as a server-sent event stream of
// full snapshots.
type StreamHandler struct {
	feeds  *feed.Set
	logger zerolog.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(feeds *feed.Set, logger zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		feeds:  feeds,
		logger: logger.With().Str("handler", "stream").Logger(),
	}
}

// Stream handles GET /api/stream/{collection} requests. Orders need an admin
// session, deleted orders the advanced tier.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	switch collection {
	case model.CollectionOrders, model.CollectionDeletedOrders:
		session, err := gate.FromContext(r.Context())
		if err != nil {
			writeDomainError(w, model.ErrAdminLocked, h.logger)
			return
		}
		if collection == model.CollectionDeletedOrders && !session.Advanced {
			writeDomainError(w, model.ErrAdvancedLocked, h.logger)
			return
		}
	}

	logger := h.logger.With().Str("collection", collection).Logger()

	switch collection {
	case model.CollectionCategories:
		streamFeed(w, r, h.feeds.Categories, logger)
	case model.CollectionMenuItems:
		streamFeed(w, r, h.feeds.MenuItems, logger)
	case model.CollectionCustomizations:
		streamFeed(w, r, h.feeds.Customizations, logger)
	case model.CollectionOrders:
		streamFeed(w, r, h.feeds.Orders, logger)
	case model.CollectionDeletedOrders:
		streamFeed(w, r, h.feeds.DeletedOrders, logger)
	default:
		writeDomainError(w, model.ErrUnknownCollection, h.logger)
	}
}

type subscriber[T any] interface {
	Subscribe(ctx context.Context, fn func([]T)) (func(), error)
}

// streamFeed relays snapshots until the client goes away. A client that
// falls behind only ever receives the newest snapshot.
func streamFeed[T any](w http.ResponseWriter, r *http.Request, f subscriber[T], logger zerolog.Logger) {
	var (
		mu     sync.Mutex
		latest []T
		dirty  = make(chan struct{}, 1)
	)

	unsubscribe, err := f.Subscribe(r.Context(), func(items []T) {
		mu.Lock()
		latest = items
		mu.Unlock()
		select {
		case dirty <- struct{}{}:
		default:
		}
	})
	if err != nil {
		writeDomainError(w, err, logger)
		return
	}
	defer unsubscribe()

	stream, ok := newSSEWriter(w, logger)
	if !ok {
		return
	}
	logger.Info().Msg("stream opened")
	defer logger.Info().Msg("stream closed")

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-dirty:
			mu.Lock()
			items := latest
			mu.Unlock()
			if items == nil {
				items = []T{}
			}
			if err := stream.Event("snapshot", items); err != nil {
				return
			}
		case <-keepAlive.C:
			if err := stream.KeepAlive(); err != nil {
				return
			}
		}
	}
}
