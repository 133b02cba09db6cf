// Package replica keeps an in-memory copy of every collection, bootstrapped
// once and then kept current by feed subscriptions.
package replica

import (
	"context"
	"errors"
	"sync"
	"time"

	"mechanical-burger/internal/config"
	"mechanical-burger/internal/feed"
	"mechanical-burger/internal/model"
	"mechanical-burger/internal/snapshot"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Cache is the persisted first-answer snapshot.
type Cache interface {
	Load() (snapshot.Envelope, bool, error)
	Save(data snapshot.Data) error
}

// State is what the replica exposes to readers.
type State struct {
	Categories     []model.Category            `json:"categories"`
	MenuItems      []model.MenuItem            `json:"menuItems"`
	Customizations []model.CustomizationOption `json:"customizations"`
	Orders         []model.Order               `json:"orders"`
	DeletedOrders  []model.DeletedOrder        `json:"deletedOrders"`
	Loading        bool                        `json:"loading"`
	Error          string                      `json:"error,omitempty"`
	FromCache      bool                        `json:"fromCache"`
	UpdatedAt      time.Time                   `json:"updatedAt"`
}

// Replica bootstraps collections and follows their feeds. A failed bootstrap
// is terminal until Restart is called.
type Replica struct {
	feeds    *feed.Set
	cache    Cache
	strategy string
	logger   zerolog.Logger

	mu          sync.RWMutex
	state       State
	menuReady   bool
	extrasReady bool
	ordersReady bool
	version     uint64
	unsubs      []func()
	cancel      context.CancelFunc
	ready       chan struct{}
	wg          sync.WaitGroup

	// saveMu orders cache writes; saved is the last version written.
	saveMu sync.Mutex
	saved  uint64

	restartMu sync.Mutex
}

// New creates a replica. cache may be nil.
func New(feeds *feed.Set, cache Cache, strategy string, logger zerolog.Logger) *Replica {
	return &Replica{
		feeds:    feeds,
		cache:    cache,
		strategy: strategy,
		logger:   logger.With().Str("component", "replica").Str("strategy", strategy).Logger(),
		state:    State{Loading: true},
		ready:    make(chan struct{}),
	}
}

// Start bootstraps the replica. With the parallel strategy every collection is
// fetched at once and Start returns when all are loaded and subscribed. With
// the cache-first strategy the cached envelope is served immediately, the menu
// is fetched before Start returns and the remaining collections load in the
// background.
func (r *Replica) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()

	if r.strategy == config.StrategyParallel {
		defer close(r.ready)
		if err := r.loadParallel(ctx); err != nil {
			return r.fail(err)
		}
		if err := r.subscribeAll(ctx); err != nil {
			return r.fail(err)
		}
		r.finish()
		return nil
	}

	r.paintFromCache()

	if err := r.loadMenu(ctx); err != nil {
		close(r.ready)
		return r.fail(err)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(r.ready)

		if err := r.loadRest(ctx); err != nil {
			r.fail(err)
			return
		}
		if err := r.subscribeAll(ctx); err != nil {
			r.fail(err)
			return
		}
		r.finish()
	}()

	return nil
}

// Ready is closed once bootstrap has finished, successfully or not.
func (r *Replica) Ready() <-chan struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// State returns a copy of the current state.
func (r *Replica) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Menu returns the customer menu: categories, burgers and active customizations.
func (r *Replica) Menu() (model.Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Checkout prices extras, so a menu without them is still loading.
	if r.state.Error != "" || !r.menuReady || !r.extrasReady {
		return model.Menu{}, model.ErrReplicaUnavailable
	}

	active := make([]model.CustomizationOption, 0, len(r.state.Customizations))
	for _, c := range r.state.Customizations {
		if c.IsActive {
			active = append(active, c)
		}
	}

	return model.Menu{
		Categories:     nonNil(r.state.Categories),
		Burgers:        nonNil(r.state.MenuItems),
		Customizations: active,
	}, nil
}

// Orders returns the replicated active orders, optionally followed by the
// deleted ones in their order shape.
func (r *Replica) Orders(includeDeleted bool) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.state.Error != "" || !r.ordersReady {
		return nil, model.ErrReplicaUnavailable
	}

	orders := make([]model.Order, 0, len(r.state.Orders)+len(r.state.DeletedOrders))
	orders = append(orders, r.state.Orders...)
	if includeDeleted {
		for _, d := range r.state.DeletedOrders {
			orders = append(orders, d.AsOrder())
		}
	}
	return orders, nil
}

// Close tears down every subscription and stops background loading.
func (r *Replica) Close() {
	r.mu.Lock()
	unsubs := r.unsubs
	r.unsubs = nil
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	for _, unsubscribe := range unsubs {
		unsubscribe()
	}
	r.wg.Wait()
}

// Restart discards the current state and bootstraps again. Concurrent calls
// run one after another.
func (r *Replica) Restart(ctx context.Context) error {
	r.restartMu.Lock()
	defer r.restartMu.Unlock()

	r.Close()

	r.mu.Lock()
	r.state = State{Loading: true}
	r.menuReady = false
	r.extrasReady = false
	r.ordersReady = false
	r.ready = make(chan struct{})
	r.mu.Unlock()

	r.logger.Info().Msg("replica restarting")
	return r.Start(ctx)
}

func (r *Replica) loadParallel(ctx context.Context) error {
	var (
		categories     []model.Category
		menuItems      []model.MenuItem
		customizations []model.CustomizationOption
		orders         []model.Order
		deleted        []model.DeletedOrder
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { categories, err = r.feeds.Categories.Snapshot(gctx); return })
	g.Go(func() (err error) { menuItems, err = r.feeds.MenuItems.Snapshot(gctx); return })
	g.Go(func() (err error) { customizations, err = r.feeds.Customizations.Snapshot(gctx); return })
	g.Go(func() (err error) { orders, err = r.feeds.Orders.Snapshot(gctx); return })
	g.Go(func() (err error) { deleted, err = r.feeds.DeletedOrders.Snapshot(gctx); return })
	if err := g.Wait(); err != nil {
		return err
	}

	r.mu.Lock()
	r.state.Categories = categories
	r.state.MenuItems = menuItems
	r.state.Customizations = customizations
	r.state.Orders = orders
	r.state.DeletedOrders = deleted
	r.menuReady = true
	r.extrasReady = true
	r.ordersReady = true
	r.mu.Unlock()
	return nil
}

func (r *Replica) loadMenu(ctx context.Context) error {
	var (
		categories []model.Category
		menuItems  []model.MenuItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { categories, err = r.feeds.Categories.Snapshot(gctx); return })
	g.Go(func() (err error) { menuItems, err = r.feeds.MenuItems.Snapshot(gctx); return })
	if err := g.Wait(); err != nil {
		return err
	}

	r.mu.Lock()
	r.state.Categories = categories
	r.state.MenuItems = menuItems
	r.state.UpdatedAt = time.Now()
	r.menuReady = true
	r.mu.Unlock()

	r.logger.Debug().Int("categories", len(categories)).Int("menu_items", len(menuItems)).Msg("menu loaded")
	return nil
}

func (r *Replica) loadRest(ctx context.Context) error {
	var (
		customizations []model.CustomizationOption
		orders         []model.Order
		deleted        []model.DeletedOrder
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { customizations, err = r.feeds.Customizations.Snapshot(gctx); return })
	g.Go(func() (err error) { orders, err = r.feeds.Orders.Snapshot(gctx); return })
	g.Go(func() (err error) { deleted, err = r.feeds.DeletedOrders.Snapshot(gctx); return })
	if err := g.Wait(); err != nil {
		return err
	}

	r.mu.Lock()
	r.state.Customizations = customizations
	r.state.Orders = orders
	r.state.DeletedOrders = deleted
	r.extrasReady = true
	r.ordersReady = true
	r.mu.Unlock()
	return nil
}

func (r *Replica) paintFromCache() {
	if r.cache == nil {
		return
	}

	env, ok, err := r.cache.Load()
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to read snapshot cache")
		return
	}
	if !ok {
		return
	}

	r.mu.Lock()
	r.state.Categories = env.Data.Categories
	r.state.MenuItems = env.Data.MenuItems
	r.state.Customizations = env.Data.Customizations
	r.state.Orders = env.Data.Orders
	r.state.FromCache = true
	r.state.UpdatedAt = env.Timestamp
	r.menuReady = true
	r.extrasReady = true
	r.mu.Unlock()

	r.logger.Info().Time("cached_at", env.Timestamp).Msg("serving cached snapshot")
}

// subscribeAll attaches one subscription per collection. Each delivery
// replaces the matching slice of the state.
func (r *Replica) subscribeAll(ctx context.Context) error {
	var unsubs []func()
	rollback := func() {
		for _, unsubscribe := range unsubs {
			unsubscribe()
		}
	}

	subscribe := func(fn func(context.Context) (func(), error)) error {
		unsubscribe, err := fn(ctx)
		if err != nil {
			rollback()
			return err
		}
		unsubs = append(unsubs, unsubscribe)
		return nil
	}

	steps := []func(context.Context) (func(), error){
		func(ctx context.Context) (func(), error) {
			return r.feeds.Categories.Subscribe(ctx, func(v []model.Category) {
				r.update(func(s *State) { s.Categories = v })
			})
		},
		func(ctx context.Context) (func(), error) {
			return r.feeds.MenuItems.Subscribe(ctx, func(v []model.MenuItem) {
				r.update(func(s *State) { s.MenuItems = v })
			})
		},
		func(ctx context.Context) (func(), error) {
			return r.feeds.Customizations.Subscribe(ctx, func(v []model.CustomizationOption) {
				r.update(func(s *State) { s.Customizations = v })
			})
		},
		func(ctx context.Context) (func(), error) {
			return r.feeds.Orders.Subscribe(ctx, func(v []model.Order) {
				r.update(func(s *State) { s.Orders = v })
			})
		},
		func(ctx context.Context) (func(), error) {
			return r.feeds.DeletedOrders.Subscribe(ctx, func(v []model.DeletedOrder) {
				r.update(func(s *State) { s.DeletedOrders = v })
			})
		},
	}

	for _, step := range steps {
		if err := subscribe(step); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.unsubs = unsubs
	r.mu.Unlock()
	return nil
}

func (r *Replica) update(apply func(*State)) {
	r.mu.Lock()
	apply(&r.state)
	r.state.UpdatedAt = time.Now()
	loading := r.state.Loading
	r.version++
	version := r.version
	data := r.cacheData()
	r.mu.Unlock()

	if !loading {
		r.save(version, data)
	}
}

func (r *Replica) finish() {
	r.mu.Lock()
	r.state.Loading = false
	r.state.FromCache = false
	r.state.UpdatedAt = time.Now()
	r.version++
	version := r.version
	data := r.cacheData()
	r.mu.Unlock()

	r.save(version, data)
	r.logger.Info().Msg("replica ready")
}

func (r *Replica) fail(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	r.mu.Lock()
	r.state.Loading = false
	r.state.Error = err.Error()
	r.mu.Unlock()

	r.logger.Error().Err(err).Msg("replica bootstrap failed")
	return err
}

// cacheData is called with mu held.
func (r *Replica) cacheData() snapshot.Data {
	return snapshot.Data{
		Categories:     r.state.Categories,
		MenuItems:      r.state.MenuItems,
		Customizations: r.state.Customizations,
		Orders:         r.state.Orders,
	}
}

// save writes data unless a newer version has already been written.
func (r *Replica) save(version uint64, data snapshot.Data) {
	if r.cache == nil {
		return
	}

	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	if version <= r.saved {
		return
	}
	if err := r.cache.Save(data); err != nil {
		r.logger.Warn().Err(err).Msg("failed to write snapshot cache")
		return
	}
	r.saved = version
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
