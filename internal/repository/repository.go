package repository

import (
	"context"

	"mechanical-burger/internal/model"
)

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	// GetAll retrieves every category, newest first.
	GetAll(ctx context.Context) ([]model.Category, error)

	// Create inserts a category and returns the assigned ID.
	Create(ctx context.Context, category *model.Category) (string, error)

	// Update applies a partial update. Returns model.ErrCategoryNotFound for unknown IDs.
	Update(ctx context.Context, id string, patch model.CategoryPatch) error

	// Delete removes a category. Returns model.ErrCategoryNotFound for unknown IDs.
	Delete(ctx context.Context, id string) error
}

// MenuItemRepository defines data access for menu items.
type MenuItemRepository interface {
	// GetAll retrieves every menu item, newest first.
	GetAll(ctx context.Context) ([]model.MenuItem, error)

	// Create inserts a menu item and returns the assigned ID.
	Create(ctx context.Context, item *model.MenuItem) (string, error)

	// Update applies a partial update. Returns model.ErrMenuItemNotFound for unknown IDs.
	Update(ctx context.Context, id string, patch model.MenuItemPatch) error

	// Delete removes a menu item. Returns model.ErrMenuItemNotFound for unknown IDs.
	Delete(ctx context.Context, id string) error
}

// CustomizationRepository defines data access for customization options.
type CustomizationRepository interface {
	// GetAll retrieves every customization option, newest first.
	GetAll(ctx context.Context) ([]model.CustomizationOption, error)

	// Create inserts an option and returns the assigned ID.
	Create(ctx context.Context, option *model.CustomizationOption) (string, error)

	// Update applies a partial update. Returns model.ErrCustomizationNotFound for unknown IDs.
	Update(ctx context.Context, id string, patch model.CustomizationPatch) error

	// Delete removes an option. Returns model.ErrCustomizationNotFound for unknown IDs.
	Delete(ctx context.Context, id string) error
}

// OrderRepository defines data access for active orders.
type OrderRepository interface {
	// GetAll retrieves every active order, newest first.
	GetAll(ctx context.Context) ([]model.Order, error)

	// GetByID retrieves a single order. Returns nil, nil when it does not exist.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// Create inserts an order. Any ID on the input is replaced by a fresh one, which is returned.
	Create(ctx context.Context, order *model.Order) (string, error)

	// UpdateStatus writes the status field only when the stored status equals from.
	// Returns model.ErrOrderNotFound when the order is missing and
	// model.ErrInvalidTransition when the stored status moved on.
	UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error

	// Delete removes an order without an audit record.
	Delete(ctx context.Context, id string) error

	// Archive copies the order into the deleted-orders collection and removes it
	// from the active collection. The returned record carries the archive ID.
	Archive(ctx context.Context, id, reason string) (*model.DeletedOrder, error)
}

// DeletedOrderRepository defines read access for the deleted-orders audit trail.
type DeletedOrderRepository interface {
	// GetAll retrieves every archived order, most recently deleted first.
	GetAll(ctx context.Context) ([]model.DeletedOrder, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Categories     CategoryRepository
	MenuItems      MenuItemRepository
	Customizations CustomizationRepository
	Orders         OrderRepository
	DeletedOrders  DeletedOrderRepository

	// Close releases backend resources. May be nil.
	Close func()
}
