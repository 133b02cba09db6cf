package service

import (
	"context"

	"mechanical-burger/internal/model"
)

// CatalogService defines operations for the menu collections.
type CatalogService interface {
	// ListCategories retrieves every category, newest first.
	ListCategories(ctx context.Context) ([]model.Category, error)

	// CreateCategory stores a new category and returns its server-assigned ID.
	CreateCategory(ctx context.Context, category model.Category) (string, error)

	// UpdateCategory applies a partial update.
	UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) error

	// DeleteCategory removes a category.
	DeleteCategory(ctx context.Context, id string) error

	// ListMenuItems retrieves every burger, newest first.
	ListMenuItems(ctx context.Context) ([]model.MenuItem, error)

	// CreateMenuItem stores a new burger and returns its server-assigned ID.
	CreateMenuItem(ctx context.Context, item model.MenuItem) (string, error)

	// UpdateMenuItem applies a partial update.
	UpdateMenuItem(ctx context.Context, id string, patch model.MenuItemPatch) error

	// DeleteMenuItem removes a burger.
	DeleteMenuItem(ctx context.Context, id string) error

	// ListCustomizations retrieves every customization option, newest first.
	ListCustomizations(ctx context.Context) ([]model.CustomizationOption, error)

	// CreateCustomization stores a new option and returns its server-assigned ID.
	CreateCustomization(ctx context.Context, option model.CustomizationOption) (string, error)

	// UpdateCustomization applies a partial update.
	UpdateCustomization(ctx context.Context, id string, patch model.CustomizationPatch) error

	// DeleteCustomization removes an option.
	DeleteCustomization(ctx context.Context, id string) error
}

// OrderService defines operations for order management.
type OrderService interface {
	// Checkout resolves the requested lines against the live menu, validates
	// the customer fields and stores a pending order.
	Checkout(ctx context.Context, req model.CheckoutRequest) (*model.Order, error)

	// Resolve prices one cart line against the live menu, reading the
	// repositories while the replica is unavailable.
	Resolve(ctx context.Context, line model.CheckoutLine) (model.OrderItem, error)

	// PlaceOrder stores a pending order from already priced items, as held in a cart.
	PlaceOrder(ctx context.Context, req model.CheckoutRequest, items []model.OrderItem) (*model.Order, error)

	// GetByID retrieves an order. Returns model.ErrOrderNotFound when it does not exist.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// List retrieves every active order, newest first.
	List(ctx context.Context) ([]model.Order, error)

	// UpdateStatus moves an order to the next kitchen status.
	UpdateStatus(ctx context.Context, id string, to model.OrderStatus) (*model.Order, error)

	// Advance moves an order one step forward from whatever status it has.
	Advance(ctx context.Context, id string) (*model.Order, error)

	// Delete removes an order without leaving an audit record.
	Delete(ctx context.Context, id string) error

	// SoftDelete archives an order into the deleted-orders collection.
	SoftDelete(ctx context.Context, id, reason string) (*model.DeletedOrder, error)

	// Cancel archives a pending order on the customer's behalf.
	Cancel(ctx context.Context, id string) (*model.DeletedOrder, error)

	// ListDeleted retrieves the deleted-orders audit trail.
	ListDeleted(ctx context.Context) ([]model.DeletedOrder, error)
}

// Notifier is told which collections a write touched.
type Notifier interface {
	Changed(ctx context.Context, collections ...string)
}

// MenuSource serves the current menu without a database round trip.
type MenuSource interface {
	Menu() (model.Menu, error)
}

type nopNotifier struct{}

func (nopNotifier) Changed(context.Context, ...string) {}
