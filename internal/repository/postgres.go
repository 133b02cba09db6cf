package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewPostgresStore wires every PostgreSQL-backed repository onto one pool.
// The pool stays owned by the caller.
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) *Store {
	return &Store{
		Categories:     NewCategoryRepository(pool, logger),
		MenuItems:      NewMenuItemRepository(pool, logger),
		Customizations: NewCustomizationRepository(pool, logger),
		Orders:         NewOrderRepository(pool, logger),
		DeletedOrders:  NewDeletedOrderRepository(pool, logger),
	}
}

// updateBuilder assembles the SET clause of a partial UPDATE.
type updateBuilder struct {
	sets []string
	args []any
}

// set adds column = $n for a non-nil patch value.
func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// build returns the statement for table with updated_at stamped and the ID as the last argument.
func (b *updateBuilder) build(table, id string, now time.Time) (string, []any) {
	b.set("updated_at", now)
	args := append(b.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(b.sets, ", "), len(args))
	return query, args
}
