package service

import (
	"context"
	"sync"

	"mechanical-burger/internal/model"
	"mechanical-burger/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetAll(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) (string, error) {
	args := m.Called(ctx, category)
	return args.String(0), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, id string, patch model.CategoryPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockMenuItemRepository is a mock implementation of MenuItemRepository.
type MockMenuItemRepository struct {
	mock.Mock
}

func (m *MockMenuItemRepository) GetAll(ctx context.Context) ([]model.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) Create(ctx context.Context, item *model.MenuItem) (string, error) {
	args := m.Called(ctx, item)
	return args.String(0), args.Error(1)
}

func (m *MockMenuItemRepository) Update(ctx context.Context, id string, patch model.MenuItemPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockMenuItemRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockCustomizationRepository is a mock implementation of CustomizationRepository.
type MockCustomizationRepository struct {
	mock.Mock
}

func (m *MockCustomizationRepository) GetAll(ctx context.Context) ([]model.CustomizationOption, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CustomizationOption), args.Error(1)
}

func (m *MockCustomizationRepository) Create(ctx context.Context, option *model.CustomizationOption) (string, error) {
	args := m.Called(ctx, option)
	return args.String(0), args.Error(1)
}

func (m *MockCustomizationRepository) Update(ctx context.Context, id string, patch model.CustomizationPatch) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockCustomizationRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) (string, error) {
	args := m.Called(ctx, order)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, from, to model.OrderStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrderRepository) Archive(ctx context.Context, id, reason string) (*model.DeletedOrder, error) {
	args := m.Called(ctx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DeletedOrder), args.Error(1)
}

// MockDeletedOrderRepository is a mock implementation of DeletedOrderRepository.
type MockDeletedOrderRepository struct {
	mock.Mock
}

func (m *MockDeletedOrderRepository) GetAll(ctx context.Context) ([]model.DeletedOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DeletedOrder), args.Error(1)
}

// MockMenuSource is a mock implementation of MenuSource.
type MockMenuSource struct {
	mock.Mock
}

func (m *MockMenuSource) Menu() (model.Menu, error) {
	args := m.Called()
	return args.Get(0).(model.Menu), args.Error(1)
}

// recordingNotifier remembers every Changed call.
type recordingNotifier struct {
	mu      sync.Mutex
	changes [][]string
}

func (n *recordingNotifier) Changed(ctx context.Context, collections ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, collections)
}

func (n *recordingNotifier) calls() [][]string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([][]string(nil), n.changes...)
}

type mockStore struct {
	categories     *MockCategoryRepository
	menuItems      *MockMenuItemRepository
	customizations *MockCustomizationRepository
	orders         *MockOrderRepository
	deletedOrders  *MockDeletedOrderRepository
}

func newMockStore() *mockStore {
	return &mockStore{
		categories:     new(MockCategoryRepository),
		menuItems:      new(MockMenuItemRepository),
		customizations: new(MockCustomizationRepository),
		orders:         new(MockOrderRepository),
		deletedOrders:  new(MockDeletedOrderRepository),
	}
}

func (m *mockStore) store() *repository.Store {
	return &repository.Store{
		Categories:     m.categories,
		MenuItems:      m.menuItems,
		Customizations: m.customizations,
		Orders:         m.orders,
		DeletedOrders:  m.deletedOrders,
	}
}
