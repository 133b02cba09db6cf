package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"mechanical-burger/internal/model"
	"mechanical-burger/internal/replica"

	"github.com/stretchr/testify/mock"
)

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, req model.CheckoutRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Resolve(ctx context.Context, line model.CheckoutLine) (model.OrderItem, error) {
	args := m.Called(ctx, line)
	if args.Get(0) == nil {
		return model.OrderItem{}, args.Error(1)
	}
	return args.Get(0).(model.OrderItem), args.Error(1)
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, req model.CheckoutRequest, items []model.OrderItem) (*model.Order, error) {
	args := m.Called(ctx, req, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id string, to model.OrderStatus) (*model.Order, error) {
	args := m.Called(ctx, id, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Advance(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderService) SoftDelete(ctx context.Context, id, reason string) (*model.DeletedOrder, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeletedOrder), args.Error(1)
}

func (m *MockOrderService) Cancel(ctx context.Context, id string) (*model.DeletedOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeletedOrder), args.Error(1)
}

func (m *MockOrderService) ListDeleted(ctx context.Context) ([]model.DeletedOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DeletedOrder), args.Error(1)
}

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCatalogService) CreateCategory(ctx context.Context, category model.Category) (string, error) {
	args := m.Called(ctx, category)
	return args.String(0), args.Error(1)
}

func (m *MockCatalogService) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockCatalogService) DeleteCategory(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) ListMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockCatalogService) CreateMenuItem(ctx context.Context, item model.MenuItem) (string, error) {
	args := m.Called(ctx, item)
	return args.String(0), args.Error(1)
}

func (m *MockCatalogService) UpdateMenuItem(ctx context.Context, id string, patch model.MenuItemPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockCatalogService) DeleteMenuItem(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) ListCustomizations(ctx context.Context) ([]model.CustomizationOption, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CustomizationOption), args.Error(1)
}

func (m *MockCatalogService) CreateCustomization(ctx context.Context, option model.CustomizationOption) (string, error) {
	args := m.Called(ctx, option)
	return args.String(0), args.Error(1)
}

func (m *MockCatalogService) UpdateCustomization(ctx context.Context, id string, patch model.CustomizationPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockCatalogService) DeleteCustomization(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// stubReplica serves fixed state.
type stubReplica struct {
	mu       sync.Mutex
	state    replica.State
	menuErr  error
	orderErr error
	restarts int
}

func (s *stubReplica) State() replica.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *stubReplica) Menu() (model.Menu, error) {
	if s.menuErr != nil {
		return model.Menu{}, s.menuErr
	}
	return model.Menu{
		Categories:     s.state.Categories,
		Burgers:        s.state.MenuItems,
		Customizations: s.state.Customizations,
	}, nil
}

func (s *stubReplica) Orders(includeDeleted bool) ([]model.Order, error) {
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	orders := append([]model.Order(nil), s.state.Orders...)
	if includeDeleted {
		for _, d := range s.state.DeletedOrders {
			orders = append(orders, d.AsOrder())
		}
	}
	return orders, nil
}

func (s *stubReplica) Restart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restarts++
	s.state.Error = ""
	return nil
}

func newJSONRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}
