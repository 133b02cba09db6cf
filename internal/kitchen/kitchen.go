// Package kitchen holds the order lifecycle rules and the kitchen board view.
package kitchen

import (
	"time"

	"mechanical-burger/internal/model"
)

// Next returns the status that follows s. ok is false for completed and
// unknown statuses.
func Next(s model.OrderStatus) (model.OrderStatus, bool) {
	switch s {
	case model.StatusPending:
		return model.StatusPreparing, true
	case model.StatusPreparing:
		return model.StatusReady, true
	case model.StatusReady:
		return model.StatusCompleted, true
	}
	return "", false
}

// ValidateTransition accepts only the single forward step from one status to the next.
func ValidateTransition(from, to model.OrderStatus) error {
	if !to.Valid() {
		return model.ErrInvalidStatus
	}
	next, ok := Next(from)
	if !ok || next != to {
		return model.ErrInvalidTransition
	}
	return nil
}

// Ticket is an order as shown on the board.
type Ticket struct {
	Order          model.Order `json:"order"`
	ElapsedMinutes int         `json:"elapsedMinutes"`
	Overdue        bool        `json:"overdue"`
}

// Counts are the per-status totals shown above the board.
type Counts struct {
	Pending   int `json:"pending"`
	Preparing int `json:"preparing"`
	Ready     int `json:"ready"`
	Completed int `json:"completed"`
}

// Board groups active orders by kitchen column.
type Board struct {
	Pending     []Ticket  `json:"pending"`
	Preparing   []Ticket  `json:"preparing"`
	Ready       []Ticket  `json:"ready"`
	Counts      Counts    `json:"counts"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// BuildBoard places orders into columns, keeping the order they arrive in.
// Completed orders are only counted.
func BuildBoard(orders []model.Order, now time.Time) Board {
	board := Board{
		Pending:     []Ticket{},
		Preparing:   []Ticket{},
		Ready:       []Ticket{},
		GeneratedAt: now,
	}

	for _, o := range orders {
		switch o.Status {
		case model.StatusPending:
			board.Pending = append(board.Pending, newTicket(o, now))
			board.Counts.Pending++
		case model.StatusPreparing:
			board.Preparing = append(board.Preparing, newTicket(o, now))
			board.Counts.Preparing++
		case model.StatusReady:
			board.Ready = append(board.Ready, newTicket(o, now))
			board.Counts.Ready++
		case model.StatusCompleted:
			board.Counts.Completed++
		}
	}

	return board
}

func newTicket(o model.Order, now time.Time) Ticket {
	elapsed := ElapsedMinutes(o.CreatedAt, now)
	return Ticket{
		Order:          o,
		ElapsedMinutes: elapsed,
		Overdue:        o.EstimatedTime > 0 && elapsed > o.EstimatedTime,
	}
}

// ElapsedMinutes is the whole number of minutes between placed and now.
func ElapsedMinutes(placed, now time.Time) int {
	if placed.IsZero() || now.Before(placed) {
		return 0
	}
	return int(now.Sub(placed) / time.Minute)
}
