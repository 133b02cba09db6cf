// Package memstore keeps every collection in process memory. It backs demo
// mode and tests; nothing survives a restart.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"mechanical-burger/internal/model"
	"mechanical-burger/internal/repository"

	"github.com/google/uuid"
)

// DB holds all collections behind one lock so an archive is a single step.
type DB struct {
	mu             sync.RWMutex
	categories     map[string]model.Category
	menuItems      map[string]model.MenuItem
	customizations map[string]model.CustomizationOption
	orders         map[string]model.Order
	deletedOrders  map[string]model.DeletedOrder
	now            func() time.Time
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		categories:     make(map[string]model.Category),
		menuItems:      make(map[string]model.MenuItem),
		customizations: make(map[string]model.CustomizationOption),
		orders:         make(map[string]model.Order),
		deletedOrders:  make(map[string]model.DeletedOrder),
		now:            time.Now,
	}
}

// Store exposes the database through the repository interfaces.
func (db *DB) Store() *repository.Store {
	return &repository.Store{
		Categories:     &categoryRepo{db: db},
		MenuItems:      &menuItemRepo{db: db},
		Customizations: &customizationRepo{db: db},
		Orders:         &orderRepo{db: db},
		DeletedOrders:  &deletedOrderRepo{db: db},
	}
}

// newestFirst sorts any slice by a creation time accessor, descending.
func newestFirst[T any](items []T, at func(T) time.Time) []T {
	sort.SliceStable(items, func(i, j int) bool {
		return at(items[i]).After(at(items[j]))
	})
	return items
}

func values[T any](m map[string]T) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

type categoryRepo struct{ db *DB }

func (r *categoryRepo) GetAll(ctx context.Context) ([]model.Category, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return newestFirst(values(r.db.categories), func(c model.Category) time.Time { return c.CreatedAt }), nil
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	category.ID = uuid.NewString()
	r.db.categories[category.ID] = *category
	return category.ID, nil
}

func (r *categoryRepo) Update(ctx context.Context, id string, patch model.CategoryPatch) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.categories[id]
	if !ok {
		return model.ErrCategoryNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	c.UpdatedAt = r.db.now()
	r.db.categories[id] = c
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.categories[id]; !ok {
		return model.ErrCategoryNotFound
	}
	delete(r.db.categories, id)
	return nil
}

type menuItemRepo struct{ db *DB }

func (r *menuItemRepo) GetAll(ctx context.Context) ([]model.MenuItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	items := values(r.db.menuItems)
	for i := range items {
		items[i].Ingredients = append([]string(nil), items[i].Ingredients...)
	}
	return newestFirst(items, func(m model.MenuItem) time.Time { return m.CreatedAt }), nil
}

func (r *menuItemRepo) Create(ctx context.Context, item *model.MenuItem) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	item.ID = uuid.NewString()
	stored := *item
	stored.Ingredients = append([]string{}, item.Ingredients...)
	r.db.menuItems[item.ID] = stored
	return item.ID, nil
}

func (r *menuItemRepo) Update(ctx context.Context, id string, patch model.MenuItemPatch) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.menuItems[id]
	if !ok {
		return model.ErrMenuItemNotFound
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Price != nil {
		m.Price = *patch.Price
	}
	if patch.Image != nil {
		m.Image = *patch.Image
	}
	if patch.Ingredients != nil {
		m.Ingredients = append([]string{}, (*patch.Ingredients)...)
	}
	if patch.CategoryID != nil {
		m.CategoryID = *patch.CategoryID
	}
	m.UpdatedAt = r.db.now()
	r.db.menuItems[id] = m
	return nil
}

func (r *menuItemRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.menuItems[id]; !ok {
		return model.ErrMenuItemNotFound
	}
	delete(r.db.menuItems, id)
	return nil
}

type customizationRepo struct{ db *DB }

func (r *customizationRepo) GetAll(ctx context.Context) ([]model.CustomizationOption, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return newestFirst(values(r.db.customizations), func(c model.CustomizationOption) time.Time { return c.CreatedAt }), nil
}

func (r *customizationRepo) Create(ctx context.Context, option *model.CustomizationOption) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	option.ID = uuid.NewString()
	r.db.customizations[option.ID] = *option
	return option.ID, nil
}

func (r *customizationRepo) Update(ctx context.Context, id string, patch model.CustomizationPatch) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c, ok := r.db.customizations[id]
	if !ok {
		return model.ErrCustomizationNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Kind != nil {
		c.Kind = *patch.Kind
	}
	if patch.Price != nil {
		c.Price = *patch.Price
	}
	if patch.CategoryID != nil {
		c.CategoryID = *patch.CategoryID
	}
	if patch.IsActive != nil {
		c.IsActive = *patch.IsActive
	}
	c.UpdatedAt = r.db.now()
	r.db.customizations[id] = c
	return nil
}

func (r *customizationRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.customizations[id]; !ok {
		return model.ErrCustomizationNotFound
	}
	delete(r.db.customizations, id)
	return nil
}

type orderRepo struct{ db *DB }

func (r *orderRepo) GetAll(ctx context.Context) ([]model.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return newestFirst(values(r.db.orders), func(o model.Order) time.Time { return o.CreatedAt }), nil
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*model.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	o, ok := r.db.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

// Create assigns a fresh ID like every other backend; client-generated IDs are never stored.
func (r *orderRepo) Create(ctx context.Context, order *model.Order) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	order.ID = uuid.NewString()
	r.db.orders[order.ID] = *order
	return order.ID, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return model.ErrOrderNotFound
	}
	if o.Status != from {
		return model.ErrInvalidTransition
	}
	o.Status = to
	o.UpdatedAt = r.db.now()
	r.db.orders[id] = o
	return nil
}

func (r *orderRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.orders[id]; !ok {
		return model.ErrOrderNotFound
	}
	delete(r.db.orders, id)
	return nil
}

func (r *orderRepo) Archive(ctx context.Context, id, reason string) (*model.DeletedOrder, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	o, ok := r.db.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	record := model.NewDeletedOrder(o, reason, r.db.now())
	record.ID = uuid.NewString()
	r.db.deletedOrders[record.ID] = record
	delete(r.db.orders, id)
	return &record, nil
}

type deletedOrderRepo struct{ db *DB }

func (r *deletedOrderRepo) GetAll(ctx context.Context) ([]model.DeletedOrder, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return newestFirst(values(r.db.deletedOrders), func(d model.DeletedOrder) time.Time { return d.DeletedAt }), nil
}
