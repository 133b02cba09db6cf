// Package feed delivers full-collection snapshots to subscribers whenever a
// collection changes, locally or on another instance.
package feed

import (
	"context"
	"sync"

	"mechanical-burger/internal/model"

	"github.com/rs/zerolog"
)

// LoadFunc reads the current contents of a collection.
type LoadFunc[T any] func(ctx context.Context) ([]T, error)

// Feed fans out snapshots of one collection. Every delivery carries the whole
// collection; there are no deltas.
type Feed[T any] struct {
	name string
	load LoadFunc[T]

	// refreshMu serialises load+broadcast so subscribers see snapshots in order.
	refreshMu sync.Mutex

	mu     sync.Mutex
	subs   map[uint64]func([]T)
	nextID uint64
	latest []T
	loaded bool

	logger zerolog.Logger
}

// New creates a feed named after the collection it serves.
func New[T any](name string, load LoadFunc[T], logger zerolog.Logger) *Feed[T] {
	return &Feed[T]{
		name:   name,
		load:   load,
		subs:   make(map[uint64]func([]T)),
		logger: logger.With().Str("component", "feed").Str("collection", name).Logger(),
	}
}

// Name returns the collection name.
func (f *Feed[T]) Name() string {
	return f.name
}

// Subscribe registers fn and immediately delivers the current snapshot to it.
// The returned func unsubscribes; calling it more than once is harmless.
// Snapshots are shared between subscribers and must be treated as read-only.
func (f *Feed[T]) Subscribe(ctx context.Context, fn func([]T)) (func(), error) {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	snapshot, err := f.current(ctx)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.mu.Unlock()

	fn(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}, nil
}

// Snapshot returns the latest known snapshot, loading it on first use.
func (f *Feed[T]) Snapshot(ctx context.Context) ([]T, error) {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()
	return f.current(ctx)
}

// Refresh reloads the collection and delivers it to every subscriber.
func (f *Feed[T]) Refresh(ctx context.Context) error {
	f.refreshMu.Lock()
	defer f.refreshMu.Unlock()

	snapshot, err := f.load(ctx)
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to reload collection")
		return &model.FetchError{Collection: f.name, Err: err}
	}

	f.mu.Lock()
	f.latest = snapshot
	f.loaded = true
	subs := make([]func([]T), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}

	f.logger.Debug().
		Int("size", len(snapshot)).
		Int("subscribers", len(subs)).
		Msg("snapshot delivered")

	return nil
}

// Subscribers reports how many callbacks are registered.
func (f *Feed[T]) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// current returns the cached snapshot or loads it. Callers hold refreshMu.
func (f *Feed[T]) current(ctx context.Context) ([]T, error) {
	f.mu.Lock()
	if f.loaded {
		snapshot := f.latest
		f.mu.Unlock()
		return snapshot, nil
	}
	f.mu.Unlock()

	snapshot, err := f.load(ctx)
	if err != nil {
		f.logger.Error().Err(err).Msg("failed to load collection")
		return nil, &model.FetchError{Collection: f.name, Err: err}
	}

	f.mu.Lock()
	f.latest = snapshot
	f.loaded = true
	f.mu.Unlock()

	return snapshot, nil
}
