package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
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
	"mechanical-burger/internal/seed"
	"mechanical-burger/internal/service"
	"mechanical-burger/internal/snapshot"

	"github.com/rs/zerolog"
)

const (
	cartTTL       = 2 * time.Hour
	sweepInterval = 5 * time.Minute
	watcherRetry  = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("backend", cfg.Store.Backend).Msg("starting mechanical-burger API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if store.Close != nil {
		defer store.Close()
	}

	// Change bus: NATS when configured, otherwise in-process only
	var bus feed.Bus = feed.LocalBus{}
	if cfg.NATS.URL != "" {
		natsBus, err := feed.NewNATSBus(cfg.NATS.URL, cfg.NATS.Subject, logger)
		if err != nil {
			return fmt.Errorf("failed to connect change bus: %w", err)
		}
		bus = natsBus
	}

	feeds := feed.NewSet(store, logger)
	hub := feed.NewHub(bus, logger)
	hub.Register(feeds.All()...)
	if err := hub.Start(ctx); err != nil {
		return fmt.Errorf("failed to start change hub: %w", err)
	}
	defer hub.Close()

	// Initialize services
	catalogService := service.NewCatalogService(store, hub, logger)

	if cfg.Store.Backend == config.BackendMemory && cfg.Store.DemoSeed {
		if _, err := seed.Menu(ctx, catalogService, false, logger); err != nil {
			return fmt.Errorf("failed to seed demo menu: %w", err)
		}
	}

	// Live replica of every collection
	var cache replica.Cache
	if cfg.Cache.Path != "" {
		cache = snapshot.NewFileCache(cfg.Cache.Path, cfg.Cache.TTL)
	}
	rep := replica.New(feeds, cache, cfg.Bootstrap.Strategy, logger)
	if err := rep.Start(ctx); err != nil {
		// The replica reports the failure through its state; checkout and the
		// kitchen board fall back to the store until it is restarted.
		logger.Error().Err(err).Msg("replica bootstrap failed")
	}
	defer rep.Close()

	orderService := service.NewOrderService(store, rep, hub, logger)

	watcher := kitchen.NewWatcher(feeds.Orders, logger)
	go watcher.Run(ctx, watcherRetry)
	defer watcher.Stop()

	adminGate := gate.New(cfg.Gate, logger)
	go adminGate.Run(ctx, sweepInterval)

	carts := cart.NewStore(cartTTL)
	go carts.Run(ctx, sweepInterval)

	uploader := media.NewUploader(newMediaStore(ctx, cfg, logger), logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Public:    handler.NewPublicHandler(rep, cfg.Sounds, logger),
		Catalog:   handler.NewCatalogHandler(catalogService, logger),
		Orders:    handler.NewOrderHandler(orderService, logger),
		Carts:     handler.NewCartHandler(carts, orderService, logger),
		Admin:     handler.NewAdminHandler(adminGate, logger),
		Kitchen:   handler.NewKitchenHandler(rep, orderService, watcher, logger),
		Analytics: handler.NewAnalyticsHandler(rep, time.Local, logger),
		Stream:    handler.NewStreamHandler(feeds, logger),
		Media:     handler.NewMediaHandler(uploader, logger),
	}

	// Initialize router
	mux := router.New(handlers, router.Options{
		Auth:      adminGate,
		MediaDir:  cfg.Media.Dir,
		MediaPath: cfg.Media.BaseURL,
	}, logger)

	// Create HTTP server. Streams are long-lived, so there is no write timeout.
	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Stop background loops and open streams first
		cancel()

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// openStore connects the configured backend.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*repository.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMongo:
		db, err := mongostore.Connect(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		return mongostore.NewStore(db, logger), nil

	case config.BackendMemory:
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return memstore.New().Store(), nil

	default:
		if cfg.Database.Migrate {
			if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
				return nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}

		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		store := repository.NewPostgresStore(pool, logger)
		store.Close = pool.Close
		return store, nil
	}
}

// newMediaStore stores images in S3 when enabled, with the local media
// directory as fallback.
func newMediaStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) media.Store {
	fileStore := media.NewFileStore(cfg.Media.Dir, cfg.Media.BaseURL, logger)

	if !cfg.S3.Enabled {
		logger.Info().Msg("using local file system for menu images (S3 disabled)")
		return fileStore
	}

	s3Store, err := media.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 store, falling back to local file system only")
		return fileStore
	}

	return media.NewFallbackStore(s3Store, fileStore, true, logger)
}
