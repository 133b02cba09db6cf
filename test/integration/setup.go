package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"mechanical-burger/internal/cart"
	"mechanical-burger/internal/config"
	"mechanical-burger/internal/database"
	"mechanical-burger/internal/feed"
	"mechanical-burger/internal/gate"
	"mechanical-burger/internal/handler"
	"mechanical-burger/internal/kitchen"
	"mechanical-burger/internal/media"
	"mechanical-burger/internal/memstore"
	"mechanical-burger/internal/mongostore"
	"mechanical-burger/internal/replica"
	"mechanical-burger/internal/repository"
	"mechanical-burger/internal/router"
	"mechanical-burger/internal/service"
	"mechanical-burger/internal/snapshot"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Credentials used by every test server.
const (
	testAdminPassword    = "letmein1"
	testAdvancedPassword = "deeper99"
	testGlobalKey        = "global-key"
)

// Backend opens a fresh repository store.
type Backend struct {
	Name string
	Open func(t *testing.T) *repository.Store
}

// Backends lists the storage backends the suite runs against. Container
// backends are skipped in short mode.
func Backends() []Backend {
	return []Backend{
		{Name: config.BackendMemory, Open: func(t *testing.T) *repository.Store { return memstore.New().Store() }},
		{Name: config.BackendPostgres, Open: SetupPostgres},
		{Name: config.BackendMongo, Open: SetupMongo},
	}
}

// SetupPostgres starts a PostgreSQL container, applies the migrations and
// returns a store over it.
func SetupPostgres(t *testing.T) *repository.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.Migrate(connStr, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return repository.NewPostgresStore(pool, zerolog.Nop())
}

// SetupMongo starts a MongoDB container and returns a store over a fresh database.
func SetupMongo(t *testing.T) *repository.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongo container: %v", err)
	}

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Disconnect(ctx)
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return mongostore.NewStore(client.Database(fmt.Sprintf("burger_%d", time.Now().UnixNano())), zerolog.Nop())
}

// TestServer is the full HTTP stack over one store.
type TestServer struct {
	Handler http.Handler
	Replica *replica.Replica
	Feeds   *feed.Set
	Orders  service.OrderService
}

// NewTestServer wires the application the way cmd/api does, with images
// written to a temp directory and the replica cached to a temp file.
func NewTestServer(t *testing.T, store *repository.Store) *TestServer {
	t.Helper()

	logger := zerolog.Nop()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	feeds := feed.NewSet(store, logger)
	hub := feed.NewHub(feed.LocalBus{}, logger)
	hub.Register(feeds.All()...)
	require.NoError(t, hub.Start(ctx))

	cache := snapshot.NewFileCache(t.TempDir()+"/snapshot.json", time.Minute)
	rep := replica.New(feeds, cache, config.StrategyParallel, logger)
	require.NoError(t, rep.Start(ctx))
	t.Cleanup(rep.Close)

	catalogService := service.NewCatalogService(store, hub, logger)
	orderService := service.NewOrderService(store, rep, hub, logger)

	watcher := kitchen.NewWatcher(feeds.Orders, logger)
	require.NoError(t, watcher.Start(ctx))
	t.Cleanup(watcher.Stop)

	adminGate := gate.New(config.GateConfig{
		AdminHash:        "kitchen-door",
		AdminPassword:    testAdminPassword,
		AdvancedPassword: testAdvancedPassword,
		GlobalKey:        testGlobalKey,
		SessionSecret:    "integration-secret",
		SessionTTL:       time.Hour,
	}, logger)

	mediaDir := t.TempDir()
	uploader := media.NewUploader(media.NewFileStore(mediaDir, "/media/", logger), logger)

	handlers := router.Handlers{
		Public:    handler.NewPublicHandler(rep, config.SoundConfig{HoverURL: "/sfx/hover.mp3"}, logger),
		Catalog:   handler.NewCatalogHandler(catalogService, logger),
		Orders:    handler.NewOrderHandler(orderService, logger),
		Carts:     handler.NewCartHandler(cart.NewStore(time.Hour), orderService, logger),
		Admin:     handler.NewAdminHandler(adminGate, logger),
		Kitchen:   handler.NewKitchenHandler(rep, orderService, watcher, logger),
		Analytics: handler.NewAnalyticsHandler(rep, time.UTC, logger),
		Stream:    handler.NewStreamHandler(feeds, logger),
		Media:     handler.NewMediaHandler(uploader, logger),
	}

	return &TestServer{
		Handler: router.New(handlers, router.Options{Auth: adminGate, MediaDir: mediaDir, MediaPath: "/media/"}, logger),
		Replica: rep,
		Feeds:   feeds,
		Orders:  orderService,
	}
}
