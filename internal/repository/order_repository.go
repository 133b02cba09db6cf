package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mechanical-burger/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id, customer_name, phone_number, items, total_amount, status,
		estimated_time, comments, order_type, created_at, updated_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
// Order items are stored as a JSONB copy so later menu edits never rewrite history.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// scanOrder reads one row selected with orderColumns.
func scanOrder(row pgx.Row, order *model.Order) error {
	return row.Scan(
		&order.ID,
		&order.CustomerName,
		&order.PhoneNumber,
		&order.Items,
		&order.TotalAmount,
		&order.Status,
		&order.EstimatedTime,
		&order.Comments,
		&order.OrderType,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
}

// GetAll retrieves every active order, newest first.
func (r *orderRepository) GetAll(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		var order model.Order
		if err := scanOrder(rows, &order); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// GetByID retrieves a single order.
func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order model.Order
	if err := scanOrder(r.pool.QueryRow(ctx, query, id), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	return &order, nil
}

// Create inserts an order with a fresh ID.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) (string, error) {
	order.ID = uuid.NewString()

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.CustomerName,
		order.PhoneNumber,
		order.Items,
		order.TotalAmount,
		string(order.Status),
		order.EstimatedTime,
		order.Comments,
		string(order.OrderType),
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID).
			Msg("failed to create order")
		return "", fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID).
		Int("item_count", len(order.Items)).
		Msg("order created successfully")

	return order.ID, nil
}

// UpdateStatus writes the status only when the stored status still equals from.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error {
	query := `
		UPDATE orders SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	tag, err := r.pool.Exec(ctx, query, string(to), time.Now(), id, string(from))
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nothing matched: tell a missing order apart from a concurrent status change.
	var current string
	err = r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrOrderNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read order status: %w", err)
	}

	r.logger.Warn().
		Str("order_id", id).
		Str("expected", string(from)).
		Str("actual", current).
		Msg("order status changed concurrently")

	return model.ErrInvalidTransition
}

// Delete removes an order without an audit record.
func (r *orderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}

	r.logger.Debug().Str("order_id", id).Msg("order deleted successfully")

	return nil
}

// Archive moves the order into deleted_orders inside one transaction, so the
// copy and the delete either both happen or neither does.
func (r *orderRepository) Archive(ctx context.Context, id, reason string) (archived *model.DeletedOrder, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var order model.Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	if err = scanOrder(tx.QueryRow(ctx, query, id), &order); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = model.ErrOrderNotFound
			return nil, err
		}
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to lock order")
		return nil, fmt.Errorf("failed to lock order: %w", err)
	}

	record := model.NewDeletedOrder(order, reason, time.Now())
	record.ID = uuid.NewString()

	insert := `
		INSERT INTO deleted_orders (id, original_order_id, customer_name, phone_number, items,
			total_amount, status, estimated_time, comments, order_type, ordered_at, deleted_at, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = tx.Exec(ctx, insert,
		record.ID,
		record.OriginalOrderID,
		record.CustomerName,
		record.PhoneNumber,
		record.Items,
		record.TotalAmount,
		string(record.Status),
		record.EstimatedTime,
		record.Comments,
		string(record.OrderType),
		record.OrderedAt,
		record.DeletedAt,
		record.Reason,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to write deleted order")
		return nil, fmt.Errorf("failed to write deleted order: %w", err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to delete archived order")
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to archive order: %w", err)
	}

	r.logger.Info().
		Str("order_id", id).
		Str("deleted_order_id", record.ID).
		Str("reason", reason).
		Msg("order archived")

	return &record, nil
}
