package repository

import (
	"context"
	"fmt"

	"mechanical-burger/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// deletedOrderRepository implements the DeletedOrderRepository interface using PostgreSQL.
type deletedOrderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDeletedOrderRepository creates a new PostgreSQL-backed deleted order repository.
func NewDeletedOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) DeletedOrderRepository {
	return &deletedOrderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "deleted_order").Logger(),
	}
}

// GetAll retrieves every archived order, most recently deleted first.
func (r *deletedOrderRepository) GetAll(ctx context.Context) ([]model.DeletedOrder, error) {
	query := `
		SELECT id, original_order_id, customer_name, phone_number, items, total_amount, status,
			estimated_time, comments, order_type, ordered_at, deleted_at, reason
		FROM deleted_orders
		ORDER BY deleted_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query deleted orders")
		return nil, fmt.Errorf("failed to query deleted orders: %w", err)
	}
	defer rows.Close()

	records := make([]model.DeletedOrder, 0)
	for rows.Next() {
		var d model.DeletedOrder
		err := rows.Scan(
			&d.ID,
			&d.OriginalOrderID,
			&d.CustomerName,
			&d.PhoneNumber,
			&d.Items,
			&d.TotalAmount,
			&d.Status,
			&d.EstimatedTime,
			&d.Comments,
			&d.OrderType,
			&d.OrderedAt,
			&d.DeletedAt,
			&d.Reason,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan deleted order row")
			return nil, fmt.Errorf("failed to scan deleted order: %w", err)
		}
		records = append(records, d)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating deleted order rows")
		return nil, fmt.Errorf("error iterating deleted orders: %w", err)
	}

	return records, nil
}
