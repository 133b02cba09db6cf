package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mechanical-burger/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type categoryRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func (r *categoryRepo) GetAll(ctx context.Context) ([]model.Category, error) {
	return findAll(ctx, r.coll, "createdAt", r.logger, func(c *model.Category) {
		c.CreatedAt = localTime(c.CreatedAt)
		c.UpdatedAt = localTime(c.UpdatedAt)
	})
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) (string, error) {
	category.ID = uuid.NewString()
	if _, err := r.coll.InsertOne(ctx, category); err != nil {
		return "", fmt.Errorf("cannot create category: %w", err)
	}
	return category.ID, nil
}

func (r *categoryRepo) Update(ctx context.Context, id string, patch model.CategoryPatch) error {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	return updateByID(ctx, r.coll, id, set, model.ErrCategoryNotFound)
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, model.ErrCategoryNotFound)
}

type menuItemRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func (r *menuItemRepo) GetAll(ctx context.Context) ([]model.MenuItem, error) {
	return findAll(ctx, r.coll, "createdAt", r.logger, func(m *model.MenuItem) {
		if m.Ingredients == nil {
			m.Ingredients = []string{}
		}
		m.CreatedAt = localTime(m.CreatedAt)
		m.UpdatedAt = localTime(m.UpdatedAt)
	})
}

func (r *menuItemRepo) Create(ctx context.Context, item *model.MenuItem) (string, error) {
	item.ID = uuid.NewString()
	if item.Ingredients == nil {
		item.Ingredients = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		return "", fmt.Errorf("cannot create menu item: %w", err)
	}
	return item.ID, nil
}

func (r *menuItemRepo) Update(ctx context.Context, id string, patch model.MenuItemPatch) error {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.Ingredients != nil {
		set["ingredients"] = *patch.Ingredients
	}
	if patch.CategoryID != nil {
		set["category"] = *patch.CategoryID
	}
	return updateByID(ctx, r.coll, id, set, model.ErrMenuItemNotFound)
}

func (r *menuItemRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, model.ErrMenuItemNotFound)
}

type customizationRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func (r *customizationRepo) GetAll(ctx context.Context) ([]model.CustomizationOption, error) {
	return findAll(ctx, r.coll, "createdAt", r.logger, func(c *model.CustomizationOption) {
		c.CreatedAt = localTime(c.CreatedAt)
		c.UpdatedAt = localTime(c.UpdatedAt)
	})
}

func (r *customizationRepo) Create(ctx context.Context, option *model.CustomizationOption) (string, error) {
	option.ID = uuid.NewString()
	if _, err := r.coll.InsertOne(ctx, option); err != nil {
		return "", fmt.Errorf("cannot create customization: %w", err)
	}
	return option.ID, nil
}

func (r *customizationRepo) Update(ctx context.Context, id string, patch model.CustomizationPatch) error {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Kind != nil {
		set["type"] = string(*patch.Kind)
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.CategoryID != nil {
		set["category"] = *patch.CategoryID
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}
	return updateByID(ctx, r.coll, id, set, model.ErrCustomizationNotFound)
}

func (r *customizationRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, model.ErrCustomizationNotFound)
}

type orderRepo struct {
	coll    *mongo.Collection
	archive *mongo.Collection
	logger  zerolog.Logger
}

func normalizeOrder(o *model.Order) {
	if o.Items == nil {
		o.Items = []model.OrderItem{}
	}
	o.CreatedAt = localTime(o.CreatedAt)
	o.UpdatedAt = localTime(o.UpdatedAt)
}

func (r *orderRepo) GetAll(ctx context.Context) ([]model.Order, error) {
	return findAll(ctx, r.coll, "timestamp", r.logger, normalizeOrder)
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot get order: %w", err)
	}
	normalizeOrder(&o)
	return &o, nil
}

func (r *orderRepo) Create(ctx context.Context, order *model.Order) (string, error) {
	order.ID = uuid.NewString()
	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return "", fmt.Errorf("cannot create order: %w", err)
	}
	return order.ID, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error {
	filter := bson.M{"_id": id, "status": string(from)}
	update := bson.M{"$set": bson.M{"status": string(to), "updatedAt": time.Now()}}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("cannot update order status: %w", err)
	}
	if result.MatchedCount == 1 {
		return nil
	}

	count, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("cannot check order: %w", err)
	}
	if count == 0 {
		return model.ErrOrderNotFound
	}
	return model.ErrInvalidTransition
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.coll, id, model.ErrOrderNotFound)
}

// Archive writes the audit record first, then deletes the order. Standalone
// MongoDB has no multi-document transactions, so a failed delete is undone by
// removing the audit record again.
func (r *orderRepo) Archive(ctx context.Context, id, reason string) (*model.DeletedOrder, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	record := model.NewDeletedOrder(*order, reason, time.Now())
	record.ID = uuid.NewString()

	if _, err := r.archive.InsertOne(ctx, record); err != nil {
		return nil, fmt.Errorf("cannot write deleted order: %w", err)
	}

	deleteErr := deleteByID(ctx, r.coll, id, model.ErrOrderNotFound)
	if deleteErr == nil {
		return &record, nil
	}

	if _, err := r.archive.DeleteOne(ctx, bson.M{"_id": record.ID}); err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id).
			Str("deleted_order_id", record.ID).
			Msg("cannot roll back deleted order record, order is now duplicated")
	}

	return nil, deleteErr
}

type deletedOrderRepo struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

func (r *deletedOrderRepo) GetAll(ctx context.Context) ([]model.DeletedOrder, error) {
	return findAll(ctx, r.coll, "deletedAt", r.logger, func(d *model.DeletedOrder) {
		if d.Items == nil {
			d.Items = []model.DeletedOrderItem{}
		}
		d.OrderedAt = localTime(d.OrderedAt)
		d.DeletedAt = localTime(d.DeletedAt)
	})
}
