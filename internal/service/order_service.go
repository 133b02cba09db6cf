package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"mechanical-burger/internal/cart"
	"mechanical-burger/internal/kitchen"
	"mechanical-burger/internal/model"
	"mechanical-burger/internal/repository"

	"github.com/rs/zerolog"
)

// Estimated preparation time bounds in minutes, inclusive.
const (
	MinEstimatedMinutes = 10
	MaxEstimatedMinutes = 25
)

// orderService implements OrderService.
type orderService struct {
	orders         repository.OrderRepository
	deletedOrders  repository.DeletedOrderRepository
	menuItems      repository.MenuItemRepository
	customizations repository.CustomizationRepository
	menu           MenuSource
	notifier       Notifier
	now            func() time.Time
	estimate       func() int
	logger         zerolog.Logger
}

// NewOrderService creates a new order service. menu and notifier may be nil;
// without a menu source checkout reads the catalogue from the repositories.
func NewOrderService(store *repository.Store, menu MenuSource, notifier Notifier, logger zerolog.Logger) OrderService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &orderService{
		orders:         store.Orders,
		deletedOrders:  store.DeletedOrders,
		menuItems:      store.MenuItems,
		customizations: store.Customizations,
		menu:           menu,
		notifier:       notifier,
		now:            time.Now,
		estimate:       randomEstimate,
		logger:         logger.With().Str("service", "order").Logger(),
	}
}

func randomEstimate() int {
	return MinEstimatedMinutes + rand.IntN(MaxEstimatedMinutes-MinEstimatedMinutes+1)
}

// Checkout resolves every line against the live menu and places the order.
func (s *orderService) Checkout(ctx context.Context, req model.CheckoutRequest) (*model.Order, error) {
	var items []model.OrderItem
	if len(req.Items) > 0 {
		catalog, err := s.catalog(ctx)
		if err != nil {
			return nil, err
		}

		items = make([]model.OrderItem, 0, len(req.Items))
		for i, line := range req.Items {
			item, err := catalog.Resolve(line)
			if err != nil {
				s.logger.Warn().
					Err(err).
					Int("item_index", i).
					Str("menu_item_id", line.MenuItemID).
					Msg("checkout line rejected")
				return nil, err
			}
			items = cart.Merge(items, item)
		}
	}

	return s.PlaceOrder(ctx, req, items)
}

// Resolve prices a single line the same way Checkout does.
func (s *orderService) Resolve(ctx context.Context, line model.CheckoutLine) (model.OrderItem, error) {
	catalog, err := s.catalog(ctx)
	if err != nil {
		return model.OrderItem{}, err
	}
	return catalog.Resolve(line)
}

// PlaceOrder validates the customer fields and stores a pending order.
func (s *orderService) PlaceOrder(ctx context.Context, req model.CheckoutRequest, items []model.OrderItem) (*model.Order, error) {
	if err := cart.ValidateCheckout(req.CustomerName, req.PhoneNumber, req.OrderType, items); err != nil {
		return nil, err
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = model.OrderTypeDineIn
	}

	now := s.now()
	order := &model.Order{
		CustomerName:  model.SanitizeText(req.CustomerName),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		Items:         items,
		TotalAmount:   cart.Total(items),
		Status:        model.StatusPending,
		EstimatedTime: s.estimate(),
		Comments:      model.SanitizeText(req.Comments),
		OrderType:     orderType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := model.Validate(order); err != nil {
		return nil, err
	}

	id, err := s.orders.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Int("item_count", len(items)).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	order.ID = id

	s.logger.Info().
		Str("order_id", id).
		Int("item_count", len(items)).
		Float64("total", order.TotalAmount).
		Str("order_type", string(orderType)).
		Msg("order created successfully")

	s.notifier.Changed(ctx, model.CollectionOrders)
	return order, nil
}

// GetByID retrieves a single order.
func (s *orderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if id == "" {
		return nil, model.ErrOrderNotFound
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		s.logger.Debug().Str("order_id", id).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// List retrieves every active order.
func (s *orderService) List(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get orders")
		return nil, &model.FetchError{Collection: model.CollectionOrders, Err: err}
	}
	return orders, nil
}

// UpdateStatus checks the transition against the stored status and writes it
// only if nobody moved the order in between.
func (s *orderService) UpdateStatus(ctx context.Context, id string, to model.OrderStatus) (*model.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := kitchen.ValidateTransition(order.Status, to); err != nil {
		s.logger.Warn().
			Str("order_id", id).
			Str("from", string(order.Status)).
			Str("to", string(to)).
			Msg("status transition rejected")
		return nil, err
	}
	return s.moveTo(ctx, order, to)
}

// Advance moves the order to the status after its current one.
func (s *orderService) Advance(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, ok := kitchen.Next(order.Status)
	if !ok {
		return nil, model.ErrInvalidTransition
	}
	return s.moveTo(ctx, order, next)
}

func (s *orderService) moveTo(ctx context.Context, order *model.Order, to model.OrderStatus) (*model.Order, error) {
	from := order.Status
	if err := s.orders.UpdateStatus(ctx, order.ID, from, to); err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = to
	order.UpdatedAt = s.now()

	s.logger.Info().
		Str("order_id", order.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("order status updated")

	s.notifier.Changed(ctx, model.CollectionOrders)
	return order, nil
}

// Delete removes an order without an audit record.
func (s *orderService) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		if isDomainError(err) {
			return err
		}
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	s.logger.Info().Str("order_id", id).Msg("order deleted")
	s.notifier.Changed(ctx, model.CollectionOrders)
	return nil
}

// SoftDelete archives an order. An empty reason means an admin delete.
func (s *orderService) SoftDelete(ctx context.Context, id, reason string) (*model.DeletedOrder, error) {
	if reason == "" {
		reason = model.DeleteReasonAdmin
	}

	archived, err := s.orders.Archive(ctx, id, model.SanitizeText(reason))
	if err != nil {
		if isDomainError(err) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("order_id", id).Msg("failed to archive order")
		return nil, fmt.Errorf("failed to archive order: %w", err)
	}

	s.logger.Info().
		Str("order_id", id).
		Str("archive_id", archived.ID).
		Str("reason", archived.Reason).
		Msg("order archived")

	s.notifier.Changed(ctx, model.CollectionOrders, model.CollectionDeletedOrders)
	return archived, nil
}

// Cancel archives the order when it is still pending.
func (s *orderService) Cancel(ctx context.Context, id string) (*model.DeletedOrder, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != model.StatusPending {
		s.logger.Warn().Str("order_id", id).Str("status", string(order.Status)).Msg("cancel rejected")
		return nil, model.ErrOrderNotCancellable
	}
	return s.SoftDelete(ctx, id, model.DeleteReasonCustomerCancel)
}

// ListDeleted retrieves archived orders.
func (s *orderService) ListDeleted(ctx context.Context) ([]model.DeletedOrder, error) {
	deleted, err := s.deletedOrders.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get deleted orders")
		return nil, &model.FetchError{Collection: model.CollectionDeletedOrders, Err: err}
	}
	return deleted, nil
}

// catalog prefers the replica and falls back to the repositories while it loads.
func (s *orderService) catalog(ctx context.Context) (cart.Catalog, error) {
	if s.menu != nil {
		menu, err := s.menu.Menu()
		if err == nil {
			return cart.Catalog{MenuItems: menu.Burgers, Customizations: menu.Customizations}, nil
		}
		s.logger.Debug().Err(err).Msg("menu replica unavailable, reading repositories")
	}

	items, err := s.menuItems.GetAll(ctx)
	if err != nil {
		return cart.Catalog{}, &model.FetchError{Collection: model.CollectionMenuItems, Err: err}
	}
	options, err := s.customizations.GetAll(ctx)
	if err != nil {
		return cart.Catalog{}, &model.FetchError{Collection: model.CollectionCustomizations, Err: err}
	}
	return cart.Catalog{MenuItems: items, Customizations: options}, nil
}

func isDomainError(err error) bool {
	var domainErr *model.DomainError
	return errors.As(err, &domainErr)
}
