package seed

import (
	"context"
	"testing"

	"mechanical-burger/internal/memstore"
	"mechanical-burger/internal/model"
	"mechanical-burger/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopNotifier struct{}

func (nopNotifier) Changed(ctx context.Context, collections ...string) {}

func TestMenu(t *testing.T) {
	ctx := context.Background()
	catalog := service.NewCatalogService(memstore.New().Store(), nopNotifier{}, zerolog.Nop())

	res, err := Menu(ctx, catalog, false, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Result{Categories: 3, MenuItems: 6, Customizations: len(demoOptions)}, res)

	categories, err := catalog.ListCategories(ctx)
	require.NoError(t, err)
	ids := make(map[string]string, len(categories))
	for _, c := range categories {
		ids[c.Name] = c.ID
	}

	items, err := catalog.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 6)
	byName := make(map[string]model.MenuItem, len(items))
	for _, it := range items {
		assert.Contains(t, []string{ids["Signature"], ids["Classic"], ids["Specialty"]}, it.CategoryID, it.Name)
		assert.NotEmpty(t, it.Image, it.Name)
		byName[it.Name] = it
	}
	assert.Equal(t, 24.99, byName["Engine Block"].Price)
	assert.Equal(t, ids["Signature"], byName["Engine Block"].CategoryID)
	assert.Equal(t, ids["Classic"], byName["Gear Shift"].CategoryID)
	assert.Equal(t, ids["Specialty"], byName["Brake Fluid"].CategoryID)
	assert.Equal(t, []string{"Classic beef patty", "Carburetor sauce", "Vintage lettuce", "Old-school cheese"}, byName["Classic Carburetor"].Ingredients)

	options, err := catalog.ListCustomizations(ctx)
	require.NoError(t, err)
	require.Len(t, options, 8)
	for _, o := range options {
		assert.True(t, o.IsActive, o.Name)
		assert.Empty(t, o.CategoryID, o.Name)
		if o.Kind == model.CustomizationRemove {
			assert.Zero(t, o.Price, o.Name)
		}
		if o.Name == "Double engine" {
			assert.Equal(t, 5.99, o.Price)
		}
	}
}

func TestMenu_SkipsExistingMenu(t *testing.T) {
	ctx := context.Background()
	catalog := service.NewCatalogService(memstore.New().Store(), nopNotifier{}, zerolog.Nop())

	_, err := Menu(ctx, catalog, false, zerolog.Nop())
	require.NoError(t, err)

	res, err := Menu(ctx, catalog, false, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	categories, err := catalog.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3)

	res, err = Menu(ctx, catalog, true, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, res.Skipped)

	categories, err = catalog.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 6)
}
