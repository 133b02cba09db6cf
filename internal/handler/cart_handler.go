package handler

import (
	"net/http"
	"strconv"

	"mechanical-burger/internal/cart"
	"mechanical-burger/internal/model"
	"mechanical-burger/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles customer cart requests.
type CartHandler struct {
	carts  *cart.Store
	orders service.OrderService
	logger zerolog.Logger
}

// NewCartHandler creates a new cart handler. Items are priced by orders, the
// same way checkout prices them.
func NewCartHandler(carts *cart.Store, orders service.OrderService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:  carts,
		orders: orders,
		logger: logger.With().Str("handler", "cart").Logger(),
	}
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// checkoutDetails are the customer fields sent when checking out a cart.
type checkoutDetails struct {
	CustomerName string          `json:"customerName"`
	PhoneNumber  string          `json:"phoneNumber"`
	Comments     string          `json:"comments,omitempty"`
	OrderType    model.OrderType `json:"orderType,omitempty"`
}

// Create handles POST /api/carts requests.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	c := h.carts.Create()
	h.logger.Debug().Str("cart_id", c.ID).Msg("cart created")
	writeJSON(w, http.StatusCreated, c)
}

// Get handles GET /api/carts/{id} requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// AddItem handles POST /api/carts/{id}/items requests. Identical
// configurations merge into one line.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var line model.CheckoutLine
	if !decodeJSON(w, r, &line, h.logger) {
		return
	}

	item, err := h.orders.Resolve(r.Context(), line)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	c, err := h.carts.Update(chi.URLParam(r, "id"), func(items []model.OrderItem) ([]model.OrderItem, error) {
		return cart.Merge(items, item), nil
	})
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// UpdateItem handles PATCH /api/carts/{id}/items/{index} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	index, ok := h.itemIndex(w, r)
	if !ok {
		return
	}

	var req quantityRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	c, err := h.carts.Update(chi.URLParam(r, "id"), func(items []model.OrderItem) ([]model.OrderItem, error) {
		return cart.SetQuantity(items, index, req.Quantity)
	})
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// RemoveItem handles DELETE /api/carts/{id}/items/{index} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := h.itemIndex(w, r)
	if !ok {
		return
	}

	c, err := h.carts.Update(chi.URLParam(r, "id"), func(items []model.OrderItem) ([]model.OrderItem, error) {
		return cart.Remove(items, index)
	})
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Checkout handles POST /api/carts/{id}/checkout requests. The cart is
// discarded once the order is stored.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var details checkoutDetails
	if !decodeJSON(w, r, &details, h.logger) {
		return
	}

	c, err := h.carts.Get(id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), model.CheckoutRequest{
		CustomerName: details.CustomerName,
		PhoneNumber:  details.PhoneNumber,
		Comments:     details.Comments,
		OrderType:    details.OrderType,
	}, c.Items)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	h.carts.Delete(id)
	h.logger.Info().Str("cart_id", id).Str("order_id", order.ID).Msg("cart checked out")
	writeJSON(w, http.StatusCreated, order)
}

func (h *CartHandler) itemIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeDomainError(w, model.ErrCartItemNotFound, h.logger)
		return 0, false
	}
	return index, true
}
