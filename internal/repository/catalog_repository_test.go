package repository

import (
	"context"
	"testing"
	"time"

	"mechanical-burger/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateBuilder(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	var b updateBuilder
	b.set("name", "Classic")
	b.set("description", "Old school")

	query, args := b.build("categories", "cat-1", now)

	assert.Equal(t, "UPDATE categories SET name = $1, description = $2, updated_at = $3 WHERE id = $4", query)
	assert.Equal(t, []any{"Classic", "Old school", now, "cat-1"}, args)
}

func TestCategoryRepository_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCategoryRepository(pool, zerolog.Nop())
	ctx := context.Background()

	older := time.Now().Add(-time.Hour).UTC().Truncate(time.Microsecond)
	newer := time.Now().UTC().Truncate(time.Microsecond)

	first := &model.Category{Name: "Classic", CreatedAt: older, UpdatedAt: older}
	id1, err := repo.Create(ctx, first)
	require.NoError(t, err)
	assert.NotEmpty(t, id1)
	assert.Equal(t, id1, first.ID)

	id2, err := repo.Create(ctx, &model.Category{Name: "Signature", Description: "House specials", CreatedAt: newer, UpdatedAt: newer})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id2, all[0].ID, "newest first")
	assert.Equal(t, "House specials", all[0].Description)

	err = repo.Update(ctx, id1, model.CategoryPatch{Description: ptr("Old school")})
	require.NoError(t, err)

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Classic", all[1].Name)
	assert.Equal(t, "Old school", all[1].Description)
	assert.True(t, all[1].UpdatedAt.After(older))

	assert.ErrorIs(t, repo.Update(ctx, "missing", model.CategoryPatch{Name: ptr("x")}), model.ErrCategoryNotFound)

	require.NoError(t, repo.Delete(ctx, id1))
	assert.ErrorIs(t, repo.Delete(ctx, id1), model.ErrCategoryNotFound)

	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMenuItemRepository_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewMenuItemRepository(pool, zerolog.Nop())
	ctx := context.Background()
	now := time.Now()

	item := &model.MenuItem{
		Name:        "Turbo Charge",
		Price:       18.99,
		Image:       "https://cdn.example.com/turbo.jpg",
		Ingredients: []string{"Angus beef patty", "Turbo sauce", "Racing cheese"},
		CategoryID:  "signature",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := repo.Create(ctx, item)
	require.NoError(t, err)

	items, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, 18.99, items[0].Price)
	assert.Equal(t, []string{"Angus beef patty", "Turbo sauce", "Racing cheese"}, items[0].Ingredients, "ingredient order is kept")
	assert.Equal(t, "signature", items[0].CategoryID)

	err = repo.Update(ctx, id, model.MenuItemPatch{
		Price:       ptr(19.5),
		Ingredients: ptr([]string{"Angus beef patty"}),
	})
	require.NoError(t, err)

	items, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 19.5, items[0].Price)
	assert.Equal(t, []string{"Angus beef patty"}, items[0].Ingredients)
	assert.Equal(t, "Turbo Charge", items[0].Name)

	assert.ErrorIs(t, repo.Update(ctx, "missing", model.MenuItemPatch{Price: ptr(1.0)}), model.ErrMenuItemNotFound)

	require.NoError(t, repo.Delete(ctx, id))
	assert.ErrorIs(t, repo.Delete(ctx, id), model.ErrMenuItemNotFound)
}

func TestCustomizationRepository_CRUD(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewCustomizationRepository(pool, zerolog.Nop())
	ctx := context.Background()
	now := time.Now()

	id, err := repo.Create(ctx, &model.CustomizationOption{
		Name:      "extraCheese",
		Kind:      model.CustomizationExtra,
		Price:     2.5,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)

	options, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, model.CustomizationExtra, options[0].Kind)
	assert.True(t, options[0].IsActive)
	assert.Empty(t, options[0].CategoryID)

	kind := model.CustomizationAdd
	err = repo.Update(ctx, id, model.CustomizationPatch{Kind: &kind, IsActive: ptr(false), CategoryID: ptr("classic")})
	require.NoError(t, err)

	options, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.CustomizationAdd, options[0].Kind)
	assert.False(t, options[0].IsActive)
	assert.Equal(t, "classic", options[0].CategoryID)

	require.NoError(t, repo.Delete(ctx, id))
	assert.ErrorIs(t, repo.Delete(ctx, id), model.ErrCustomizationNotFound)
}
