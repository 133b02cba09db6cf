package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mechanical-burger/internal/config"
	"mechanical-burger/internal/feed"
	"mechanical-burger/internal/kitchen"
	"mechanical-burger/internal/model"
	"mechanical-burger/internal/replica"
	"mechanical-burger/internal/seed"
	"mechanical-burger/internal/service"
	"mechanical-burger/internal/snapshot"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplica_Integration(t *testing.T) {
	for _, backend := range Backends() {
		t.Run(backend.Name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			logger := zerolog.Nop()
			store := backend.Open(t)

			feeds := feed.NewSet(store, logger)
			hub := feed.NewHub(nil, logger)
			hub.Register(feeds.All()...)
			require.NoError(t, hub.Start(ctx))

			catalog := service.NewCatalogService(store, hub, logger)
			_, err := seed.Menu(ctx, catalog, false, logger)
			require.NoError(t, err)

			cachePath := filepath.Join(t.TempDir(), "snapshot.json")
			cache := snapshot.NewFileCache(cachePath, time.Hour)

			rep := replica.New(feeds, cache, config.StrategyParallel, logger)
			require.NoError(t, rep.Start(ctx))
			defer rep.Close()

			orders := service.NewOrderService(store, rep, hub, logger)

			watcher := kitchen.NewWatcher(feeds.Orders, logger)
			require.NoError(t, watcher.Start(ctx))
			defer watcher.Stop()
			cues, stop := watcher.Listen(4)
			defer stop()

			t.Run("bootstrap loads every collection", func(t *testing.T) {
				state := rep.State()
				assert.False(t, state.Loading)
				assert.Empty(t, state.Error)
				assert.Len(t, state.Categories, 3)
				assert.Len(t, state.MenuItems, 6)
				assert.Len(t, state.Customizations, 8)
				assert.Empty(t, state.Orders)
			})

			var placed *model.Order

			t.Run("writes reach the replica and the cache", func(t *testing.T) {
				menu, err := rep.Menu()
				require.NoError(t, err)

				placed, err = orders.Checkout(ctx, model.CheckoutRequest{
					CustomerName: "Rami",
					PhoneNumber:  "71123456",
					OrderType:    model.OrderTypeTakeaway,
					Items:        []model.CheckoutLine{{MenuItemID: menu.Burgers[0].ID, Quantity: 2}},
				})
				require.NoError(t, err)

				got, err := rep.Orders(false)
				require.NoError(t, err)
				require.Len(t, got, 1)
				assert.Equal(t, placed.ID, got[0].ID)
				assert.InDelta(t, menu.Burgers[0].Price*2, got[0].TotalAmount, 0.001)

				env, ok, err := cache.Load()
				require.NoError(t, err)
				require.True(t, ok)
				assert.Len(t, env.Data.Orders, 1)
				assert.Len(t, env.Data.MenuItems, 6)
			})

			t.Run("watcher emits a cue for the new order", func(t *testing.T) {
				select {
				case cue := <-cues:
					assert.Equal(t, kitchen.CueNewOrder, cue.Kind)
					assert.Equal(t, placed.ID, cue.OrderID)
					assert.Equal(t, kitchen.ToneNewOrder, cue.ToneHz)
				case <-time.After(5 * time.Second):
					t.Fatal("no cue received")
				}

				_, err := orders.Advance(ctx, placed.ID)
				require.NoError(t, err)

				select {
				case cue := <-cues:
					assert.Equal(t, kitchen.CueStatusChange, cue.Kind)
					assert.Equal(t, model.StatusPreparing, cue.To)
				case <-time.After(5 * time.Second):
					t.Fatal("no cue received")
				}
			})

			t.Run("archived orders move collections", func(t *testing.T) {
				archived, err := orders.SoftDelete(ctx, placed.ID, "")
				require.NoError(t, err)
				assert.Equal(t, model.DeleteReasonAdmin, archived.Reason)

				active, err := rep.Orders(false)
				require.NoError(t, err)
				assert.Empty(t, active)

				all, err := rep.Orders(true)
				require.NoError(t, err)
				require.Len(t, all, 1)
				assert.Equal(t, placed.ID, all[0].ID)
				assert.Equal(t, model.StatusPreparing, all[0].Status)
			})

			t.Run("cache-first replica converges on the store", func(t *testing.T) {
				second := replica.New(feeds, snapshot.NewFileCache(cachePath, time.Hour), config.StrategyCacheFirst, logger)
				require.NoError(t, second.Start(ctx))
				defer second.Close()

				select {
				case <-second.Ready():
				case <-time.After(10 * time.Second):
					t.Fatal("replica never became ready")
				}

				state := second.State()
				assert.False(t, state.FromCache)
				assert.Len(t, state.MenuItems, 6)
				assert.Empty(t, state.Orders)
				assert.Len(t, state.DeletedOrders, 1)
			})

			t.Run("restart reloads", func(t *testing.T) {
				require.NoError(t, rep.Restart(ctx))

				menu, err := rep.Menu()
				require.NoError(t, err)
				assert.Len(t, menu.Categories, 3)
			})
		})
	}
}
