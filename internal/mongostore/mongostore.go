// Package mongostore implements the repository interfaces on MongoDB, the
// document-store flavour of the backend.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"mechanical-burger/internal/config"
	"mechanical-burger/internal/model"
	"mechanical-burger/internal/repository"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names match the change feed names.
const (
	CollectionCategories     = model.CollectionCategories
	CollectionMenuItems      = model.CollectionMenuItems
	CollectionCustomizations = model.CollectionCustomizations
	CollectionOrders         = model.CollectionOrders
	CollectionDeletedOrders  = model.CollectionDeletedOrders
)

// Connect opens a MongoDB client and verifies it with a ping.
func Connect(ctx context.Context, cfg config.MongoConfig, logger zerolog.Logger) (*mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	logger.Info().Str("database", cfg.Database).Msg("connected to MongoDB")

	return client.Database(cfg.Database), nil
}

// NewStore wires every MongoDB-backed repository onto db. Close disconnects the client.
func NewStore(db *mongo.Database, logger zerolog.Logger) *repository.Store {
	logger = logger.With().Str("component", "mongostore").Logger()

	return &repository.Store{
		Categories:     &categoryRepo{coll: db.Collection(CollectionCategories), logger: logger},
		MenuItems:      &menuItemRepo{coll: db.Collection(CollectionMenuItems), logger: logger},
		Customizations: &customizationRepo{coll: db.Collection(CollectionCustomizations), logger: logger},
		Orders: &orderRepo{
			coll:    db.Collection(CollectionOrders),
			archive: db.Collection(CollectionDeletedOrders),
			logger:  logger,
		},
		DeletedOrders: &deletedOrderRepo{coll: db.Collection(CollectionDeletedOrders), logger: logger},
		Close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Client().Disconnect(ctx); err != nil {
				logger.Error().Err(err).Msg("cannot disconnect from MongoDB")
			}
		},
	}
}

// findAll decodes every document of coll sorted by sortField descending.
// Documents that fail to decode or validate are skipped with a warning rather
// than failing the whole read.
func findAll[T any](ctx context.Context, coll *mongo.Collection, sortField string, logger zerolog.Logger, normalize func(*T)) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}})

	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("cannot list %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	result := make([]T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			logger.Warn().Err(err).Str("collection", coll.Name()).Msg("skipping undecodable document")
			continue
		}
		normalize(&doc)
		if err := model.Validate(doc); err != nil {
			logger.Warn().
				Err(err).
				Str("collection", coll.Name()).
				Str("id", cursor.Current.Lookup("_id").String()).
				Msg("skipping malformed document")
			continue
		}
		result = append(result, doc)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cannot iterate %s: %w", coll.Name(), err)
	}

	return result, nil
}

// localTime converts stored timestamps to local time, filling gaps with now.
func localTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t.Local()
}

// updateByID applies $set to one document and maps a miss to notFound.
func updateByID(ctx context.Context, coll *mongo.Collection, id string, set bson.M, notFound error) error {
	set["updatedAt"] = time.Now()

	result, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("cannot update %s: %w", coll.Name(), err)
	}

	if result.MatchedCount == 0 {
		return notFound
	}

	return nil
}

// deleteByID removes one document and maps a miss to notFound.
func deleteByID(ctx context.Context, coll *mongo.Collection, id string, notFound error) error {
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot delete from %s: %w", coll.Name(), err)
	}

	if result.DeletedCount == 0 {
		return notFound
	}

	return nil
}
