package feed

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Refresher is the untyped face of a Feed used by the hub.
type Refresher interface {
	Name() string
	Refresh(ctx context.Context) error
}

// Hub routes change notifications to feeds and mirrors them onto a Bus so
// other instances converge on the same data.
type Hub struct {
	mu     sync.RWMutex
	feeds  map[string]Refresher
	bus    Bus
	logger zerolog.Logger
}

// NewHub creates a hub. A nil bus keeps notifications in-process.
func NewHub(bus Bus, logger zerolog.Logger) *Hub {
	if bus == nil {
		bus = LocalBus{}
	}
	return &Hub{
		feeds:  make(map[string]Refresher),
		bus:    bus,
		logger: logger.With().Str("component", "feed-hub").Logger(),
	}
}

// Register adds feeds to the hub, keyed by collection name.
func (h *Hub) Register(feeds ...Refresher) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, f := range feeds {
		h.feeds[f.Name()] = f
	}
}

// Start listens on the bus for changes made by other instances.
func (h *Hub) Start(ctx context.Context) error {
	return h.bus.Subscribe(func(collection string) {
		h.refresh(ctx, collection)
	})
}

// Changed is called after a successful write. It refreshes the local feed and
// announces the change on the bus. Failures are logged, never returned: the
// write itself already succeeded.
func (h *Hub) Changed(ctx context.Context, collections ...string) {
	for _, collection := range collections {
		h.refresh(ctx, collection)

		if err := h.bus.Publish(ctx, collection); err != nil {
			h.logger.Warn().Err(err).Str("collection", collection).Msg("failed to publish change")
		}
	}
}

// Close releases the bus.
func (h *Hub) Close() error {
	return h.bus.Close()
}

func (h *Hub) refresh(ctx context.Context, collection string) {
	h.mu.RLock()
	f, ok := h.feeds[collection]
	h.mu.RUnlock()

	if !ok {
		h.logger.Debug().Str("collection", collection).Msg("change for unregistered collection ignored")
		return
	}

	if err := f.Refresh(ctx); err != nil {
		h.logger.Error().Err(err).Str("collection", collection).Msg("failed to refresh feed")
	}
}
