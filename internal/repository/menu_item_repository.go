package repository

import (
	"context"
	"fmt"
	"time"

	"mechanical-burger/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// menuItemRepository implements the MenuItemRepository interface using PostgreSQL.
type menuItemRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMenuItemRepository creates a new PostgreSQL-backed menu item repository.
func NewMenuItemRepository(pool *pgxpool.Pool, logger zerolog.Logger) MenuItemRepository {
	return &menuItemRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "menu_item").Logger(),
	}
}

// GetAll retrieves every menu item, newest first.
func (r *menuItemRepository) GetAll(ctx context.Context) ([]model.MenuItem, error) {
	query := `
		SELECT id, name, price, image, ingredients, category_id, created_at, updated_at
		FROM menu_items
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query menu items")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	items := make([]model.MenuItem, 0)
	for rows.Next() {
		var item model.MenuItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Price,
			&item.Image,
			&item.Ingredients,
			&item.CategoryID,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan menu item row")
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating menu item rows")
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}

// Create inserts a menu item and returns the assigned ID.
func (r *menuItemRepository) Create(ctx context.Context, item *model.MenuItem) (string, error) {
	item.ID = uuid.NewString()
	if item.Ingredients == nil {
		item.Ingredients = []string{}
	}

	query := `
		INSERT INTO menu_items (id, name, price, image, ingredients, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Price,
		item.Image,
		item.Ingredients,
		item.CategoryID,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("name", item.Name).Msg("failed to create menu item")
		return "", fmt.Errorf("failed to create menu item: %w", err)
	}

	r.logger.Debug().Str("menu_item_id", item.ID).Msg("menu item created successfully")

	return item.ID, nil
}

// Update applies a partial update.
func (r *menuItemRepository) Update(ctx context.Context, id string, patch model.MenuItemPatch) error {
	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Price != nil {
		b.set("price", *patch.Price)
	}
	if patch.Image != nil {
		b.set("image", *patch.Image)
	}
	if patch.Ingredients != nil {
		b.set("ingredients", *patch.Ingredients)
	}
	if patch.CategoryID != nil {
		b.set("category_id", *patch.CategoryID)
	}

	query, args := b.build("menu_items", id, time.Now())
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to update menu item")
		return fmt.Errorf("failed to update menu item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrMenuItemNotFound
	}

	return nil
}

// Delete removes a menu item.
func (r *menuItemRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("menu_item_id", id).Msg("failed to delete menu item")
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrMenuItemNotFound
	}

	r.logger.Debug().Str("menu_item_id", id).Msg("menu item deleted successfully")

	return nil
}
