package kitchen

import (
	"context"
	"sync"
	"time"

	"mechanical-burger/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderFeed is the orders subscription the watcher follows.
type OrderFeed interface {
	Subscribe(ctx context.Context, fn func([]model.Order)) (func(), error)
}

// Watcher turns successive order snapshots into cues and fans them out to
// listeners. The first snapshot only sets the baseline.
type Watcher struct {
	feed   OrderFeed
	now    func() time.Time
	logger zerolog.Logger

	mu          sync.RWMutex
	prev        map[string]model.OrderStatus
	baseline    bool
	listeners   map[string]chan Cue
	unsubscribe func()
	stopped     bool
}

// NewWatcher creates a watcher over the orders feed.
func NewWatcher(feed OrderFeed, logger zerolog.Logger) *Watcher {
	return &Watcher{
		feed:      feed,
		now:       time.Now,
		listeners: make(map[string]chan Cue),
		logger:    logger.With().Str("component", "kitchen-watcher").Logger(),
	}
}

// Start subscribes to the orders feed.
func (w *Watcher) Start(ctx context.Context) error {
	unsubscribe, err := w.feed.Subscribe(ctx, w.observe)
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		unsubscribe()
		return nil
	}
	w.unsubscribe = unsubscribe
	w.mu.Unlock()
	return nil
}

// Run calls Start until it succeeds, waiting interval between attempts. It
// returns once subscribed or when ctx is done.
func (w *Watcher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		err := w.Start(ctx)
		if err == nil {
			if attempt > 1 {
				w.logger.Info().Int("attempt", attempt).Msg("kitchen cues available")
			}
			return
		}
		w.logger.Warn().Err(err).Int("attempt", attempt).Msg("kitchen cues unavailable, retrying")

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop detaches from the feed and closes every listener channel.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopped = true
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
	for id, ch := range w.listeners {
		close(ch)
		delete(w.listeners, id)
	}
}

// Listen registers a listener. The returned func removes it and closes the
// channel.
func (w *Watcher) Listen(buffer int) (<-chan Cue, func()) {
	id := uuid.NewString()
	ch := make(chan Cue, buffer)

	w.mu.Lock()
	w.listeners[id] = ch
	w.mu.Unlock()

	w.logger.Info().Str("listener_id", id).Msg("new kitchen cue listener")

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.mu.Lock()
			if _, ok := w.listeners[id]; ok {
				delete(w.listeners, id)
				close(ch)
			}
			w.mu.Unlock()
			w.logger.Info().Str("listener_id", id).Msg("kitchen cue listener disconnected")
		})
	}
}

func (w *Watcher) observe(orders []model.Order) {
	next := StatusMap(orders)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.baseline {
		w.prev = next
		w.baseline = true
		return
	}

	cues := Cues(w.prev, next, w.now())
	w.prev = next

	for _, cue := range cues {
		for id, ch := range w.listeners {
			select {
			case ch <- cue:
			default:
				w.logger.Warn().Str("listener_id", id).Str("order_id", cue.OrderID).Msg("listener channel full, dropping cue")
			}
		}
	}
}
