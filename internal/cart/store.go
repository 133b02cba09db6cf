package cart

import (
	"context"
	"sync"
	"time"

	"mechanical-burger/internal/model"

	"github.com/google/uuid"
)

// Cart is a customer's pending selection.
type Cart struct {
	ID        string            `json:"id"`
	Items     []model.OrderItem `json:"items"`
	Total     float64           `json:"total"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	ExpiresAt time.Time         `json:"expiresAt"`
}

// Store keeps carts in memory. Every write extends the cart's lifetime.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*Cart
	ttl   time.Duration
	now   func() time.Time
}

// NewStore creates a cart store whose carts expire ttl after their last change.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		carts: make(map[string]*Cart),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create starts an empty cart.
func (s *Store) Create() Cart {
	now := s.now()
	c := &Cart{
		ID:        uuid.NewString(),
		Items:     []model.OrderItem{},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.carts[c.ID] = c
	s.mu.Unlock()

	return *c
}

// Get returns a copy of the cart.
func (s *Store) Get(id string) (Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[id]
	if !ok || s.now().After(c.ExpiresAt) {
		return Cart{}, model.ErrCartNotFound
	}
	return *c, nil
}

// Update replaces the cart's items with the result of fn, atomically.
func (s *Store) Update(id string, fn func([]model.OrderItem) ([]model.OrderItem, error)) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok || s.now().After(c.ExpiresAt) {
		return Cart{}, model.ErrCartNotFound
	}

	items, err := fn(c.Items)
	if err != nil {
		return Cart{}, err
	}

	now := s.now()
	c.Items = items
	c.Total = Total(items)
	c.UpdatedAt = now
	c.ExpiresAt = now.Add(s.ttl)
	return *c, nil
}

// Delete forgets a cart.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
}

// Len reports how many carts are held, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}

// Run evicts expired carts every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.evict()
		}
	}
}

func (s *Store) evict() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, c := range s.carts {
		if now.After(c.ExpiresAt) {
			delete(s.carts, id)
		}
	}
}
