package feed

import (
	"mechanical-burger/internal/model"
	"mechanical-burger/internal/repository"

	"github.com/rs/zerolog"
)

// Set holds one feed per collection of a store.
type Set struct {
	Categories     *Feed[model.Category]
	MenuItems      *Feed[model.MenuItem]
	Customizations *Feed[model.CustomizationOption]
	Orders         *Feed[model.Order]
	DeletedOrders  *Feed[model.DeletedOrder]
}

// NewSet creates feeds that load from the store's repositories.
func NewSet(store *repository.Store, logger zerolog.Logger) *Set {
	return &Set{
		Categories:     New(model.CollectionCategories, store.Categories.GetAll, logger),
		MenuItems:      New(model.CollectionMenuItems, store.MenuItems.GetAll, logger),
		Customizations: New(model.CollectionCustomizations, store.Customizations.GetAll, logger),
		Orders:         New(model.CollectionOrders, store.Orders.GetAll, logger),
		DeletedOrders:  New(model.CollectionDeletedOrders, store.DeletedOrders.GetAll, logger),
	}
}

// All returns the feeds for registration with a Hub.
func (s *Set) All() []Refresher {
	return []Refresher{s.Categories, s.MenuItems, s.Customizations, s.Orders, s.DeletedOrders}
}
