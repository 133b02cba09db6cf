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

// customizationRepository implements the CustomizationRepository interface using PostgreSQL.
type customizationRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCustomizationRepository creates a new PostgreSQL-backed customization repository.
func NewCustomizationRepository(pool *pgxpool.Pool, logger zerolog.Logger) CustomizationRepository {
	return &customizationRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "customization").Logger(),
	}
}

// GetAll retrieves every customization option, newest first.
func (r *customizationRepository) GetAll(ctx context.Context) ([]model.CustomizationOption, error) {
	query := `
		SELECT id, name, kind, price, category_id, is_active, created_at, updated_at
		FROM customizations
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query customizations")
		return nil, fmt.Errorf("failed to query customizations: %w", err)
	}
	defer rows.Close()

	options := make([]model.CustomizationOption, 0)
	for rows.Next() {
		var o model.CustomizationOption
		err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.Kind,
			&o.Price,
			&o.CategoryID,
			&o.IsActive,
			&o.CreatedAt,
			&o.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan customization row")
			return nil, fmt.Errorf("failed to scan customization: %w", err)
		}
		options = append(options, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating customization rows")
		return nil, fmt.Errorf("error iterating customizations: %w", err)
	}

	return options, nil
}

// Create inserts an option and returns the assigned ID.
func (r *customizationRepository) Create(ctx context.Context, option *model.CustomizationOption) (string, error) {
	option.ID = uuid.NewString()

	query := `
		INSERT INTO customizations (id, name, kind, price, category_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		option.ID,
		option.Name,
		string(option.Kind),
		option.Price,
		option.CategoryID,
		option.IsActive,
		option.CreatedAt,
		option.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("name", option.Name).Msg("failed to create customization")
		return "", fmt.Errorf("failed to create customization: %w", err)
	}

	r.logger.Debug().Str("customization_id", option.ID).Msg("customization created successfully")

	return option.ID, nil
}

// Update applies a partial update.
func (r *customizationRepository) Update(ctx context.Context, id string, patch model.CustomizationPatch) error {
	var b updateBuilder
	if patch.Name != nil {
		b.set("name", *patch.Name)
	}
	if patch.Kind != nil {
		b.set("kind", string(*patch.Kind))
	}
	if patch.Price != nil {
		b.set("price", *patch.Price)
	}
	if patch.CategoryID != nil {
		b.set("category_id", *patch.CategoryID)
	}
	if patch.IsActive != nil {
		b.set("is_active", *patch.IsActive)
	}

	query, args := b.build("customizations", id, time.Now())
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("customization_id", id).Msg("failed to update customization")
		return fmt.Errorf("failed to update customization: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCustomizationNotFound
	}

	return nil
}

// Delete removes an option.
func (r *customizationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customizations WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("customization_id", id).Msg("failed to delete customization")
		return fmt.Errorf("failed to delete customization: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCustomizationNotFound
	}

	r.logger.Debug().Str("customization_id", id).Msg("customization deleted successfully")

	return nil
}
