package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mechanical-burger/internal/config"
	"mechanical-burger/internal/database"
	"mechanical-burger/internal/feed"
	"mechanical-burger/internal/mongostore"
	"mechanical-burger/internal/repository"
	"mechanical-burger/internal/seed"
	"mechanical-burger/internal/service"
)

// seed writes the demo menu into the configured backend. Running instances
// pick the change up through the NATS bus when NATS_URL is set.
func main() {
	force := flag.Bool("force", false, "seed even when categories already exist")
	flag.Parse()

	if err := run(*force); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(force bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	var store *repository.Store
	switch cfg.Store.Backend {
	case config.BackendMongo:
		db, err := mongostore.Connect(ctx, cfg.Mongo, logger)
		if err != nil {
			return err
		}
		store = mongostore.NewStore(db, logger)
	case config.BackendPostgres:
		if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
			return err
		}
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		store = repository.NewPostgresStore(pool, logger)
		store.Close = pool.Close
	default:
		return fmt.Errorf("nothing to seed for the %s backend, set DEMO_SEED=true on the server instead", cfg.Store.Backend)
	}
	if store.Close != nil {
		defer store.Close()
	}

	var notifier service.Notifier
	if cfg.NATS.URL != "" {
		bus, err := feed.NewNATSBus(cfg.NATS.URL, cfg.NATS.Subject, logger)
		if err != nil {
			return err
		}
		defer bus.Close()
		hub := feed.NewHub(bus, logger)
		notifier = hub
	}

	res, err := seed.Menu(ctx, service.NewCatalogService(store, notifier, logger), force, logger)
	if err != nil {
		return err
	}

	if res.Skipped {
		fmt.Println("Menu already present, nothing written (use -force to seed anyway)")
		return nil
	}
	fmt.Printf("Seeded %d categories, %d burgers and %d customizations\n", res.Categories, res.MenuItems, res.Customizations)
	return nil
}
