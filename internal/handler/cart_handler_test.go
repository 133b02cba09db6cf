package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mechanical-burger/internal/cart"
	"mechanical-burger/internal/memstore"
	"mechanical-burger/internal/model"
	"mechanical-burger/internal/replica"
	"mechanical-burger/internal/repository"
	"mechanical-burger/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testMenuState() replica.State {
	return replica.State{
		Categories: []model.Category{{ID: "c1", Name: "Beef"}},
		MenuItems: []model.MenuItem{
			{ID: "b1", Name: "Classic", Price: 12, CategoryID: "c1"},
			{ID: "b2", Name: "Veggie", Price: 10},
		},
		Customizations: []model.CustomizationOption{
			{ID: "x1", Name: "Extra cheese", Kind: model.CustomizationExtra, Price: 1.5, IsActive: true},
			{ID: "x2", Name: "Truffle", Kind: model.CustomizationAdd, Price: 4, IsActive: false},
		},
	}
}

// pricedOrders prices cart lines with a real order service and mocks the rest.
type pricedOrders struct {
	*MockOrderService
	priced service.OrderService
}

func (p pricedOrders) Resolve(ctx context.Context, line model.CheckoutLine) (model.OrderItem, error) {
	return p.priced.Resolve(ctx, line)
}

type cartFixture struct {
	router http.Handler
	carts  *cart.Store
	orders *MockOrderService
}

func newCartFixture() cartFixture {
	return newCartFixtureWith(memstore.New().Store(), &stubReplica{state: testMenuState()})
}

func newCartFixtureWith(store *repository.Store, menu service.MenuSource) cartFixture {
	carts := cart.NewStore(time.Hour)
	orders := new(MockOrderService)
	priced := service.NewOrderService(store, menu, nil, zerolog.Nop())
	h := NewCartHandler(carts, pricedOrders{MockOrderService: orders, priced: priced}, zerolog.Nop())

	r := chi.NewRouter()
	r.Post("/api/carts", h.Create)
	r.Get("/api/carts/{id}", h.Get)
	r.Post("/api/carts/{id}/items", h.AddItem)
	r.Patch("/api/carts/{id}/items/{index}", h.UpdateItem)
	r.Delete("/api/carts/{id}/items/{index}", h.RemoveItem)
	r.Post("/api/carts/{id}/checkout", h.Checkout)

	return cartFixture{router: r, carts: carts, orders: orders}
}

func (f cartFixture) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, cart.Cart) {
	t.Helper()
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, newJSONRequest(method, target, body))

	var c cart.Cart
	if rec.Code == http.StatusOK || rec.Code == http.StatusCreated {
		_ = json.Unmarshal(rec.Body.Bytes(), &c)
	}
	return rec, c
}

func TestCartHandler_Flow(t *testing.T) {
	f := newCartFixture()

	rec, c := f.do(t, http.MethodPost, "/api/carts", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, c.ID)
	base := "/api/carts/" + c.ID

	// Same burger with the same options merges into one line.
	rec, c = f.do(t, http.MethodPost, base+"/items", `{"burgerId":"b1","customizationIds":["x1"],"quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, c = f.do(t, http.MethodPost, base+"/items", `{"burgerId":"b1","customizationIds":["x1"],"quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.InDelta(t, 27.0, c.Items[0].TotalPrice, 0.001)

	rec, c = f.do(t, http.MethodPost, base+"/items", `{"burgerId":"b2","quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, c.Items, 2)
	assert.InDelta(t, 37.0, c.Total, 0.001)

	rec, c = f.do(t, http.MethodPatch, base+"/items/1", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, c.Items[1].Quantity)
	assert.InDelta(t, 57.0, c.Total, 0.001)

	rec, c = f.do(t, http.MethodDelete, base+"/items/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "b2", c.Items[0].MenuItem.ID)
}

func TestCartHandler_AddItem_Rejections(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "unknown burger",
			body:           `{"burgerId":"nope","quantity":1}`,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeMenuItemNotFound,
		},
		{
			name:           "inactive customization",
			body:           `{"burgerId":"b1","customizationIds":["x2"],"quantity":1}`,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeCustomizationNotFound,
		},
		{
			name:           "zero quantity",
			body:           `{"burgerId":"b1","quantity":0}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture()
			c := f.carts.Create()

			rec, _ := f.do(t, http.MethodPost, "/api/carts/"+c.ID+"/items", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedCode, resp.Error)
		})
	}
}

func TestCartHandler_AddItem_ReplicaUnavailable(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Store()
	burgerID, err := store.MenuItems.Create(ctx, &model.MenuItem{Name: "Classic", Price: 12})
	require.NoError(t, err)
	optionID, err := store.Customizations.Create(ctx, &model.CustomizationOption{
		Name: "Extra cheese", Kind: model.CustomizationExtra, Price: 1.5, IsActive: true,
	})
	require.NoError(t, err)

	f := newCartFixtureWith(store, &stubReplica{menuErr: model.ErrReplicaUnavailable})
	c := f.carts.Create()

	rec, got := f.do(t, http.MethodPost, "/api/carts/"+c.ID+"/items",
		`{"burgerId":"`+burgerID+`","customizationIds":["`+optionID+`"],"quantity":2}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, got.Items, 1)
	assert.InDelta(t, 27.0, got.Total, 0.001)
}

func TestCartHandler_UnknownCartAndIndex(t *testing.T) {
	f := newCartFixture()

	rec, _ := f.do(t, http.MethodGet, "/api/carts/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	c := f.carts.Create()
	rec, _ = f.do(t, http.MethodPatch, "/api/carts/"+c.ID+"/items/abc", `{"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodDelete, "/api/carts/"+c.ID+"/items/4", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_Checkout(t *testing.T) {
	f := newCartFixture()
	c := f.carts.Create()
	_, c = f.do(t, http.MethodPost, "/api/carts/"+c.ID+"/items", `{"burgerId":"b1","quantity":2}`)

	f.orders.On("PlaceOrder", mock.Anything,
		mock.MatchedBy(func(req model.CheckoutRequest) bool {
			return req.CustomerName == "Rami" && req.OrderType == model.OrderTypeTakeaway
		}),
		mock.MatchedBy(func(items []model.OrderItem) bool {
			return len(items) == 1 && items[0].Quantity == 2
		}),
	).Return(&model.Order{ID: "o1", Status: model.StatusPending, TotalAmount: 24}, nil)

	rec, _ := f.do(t, http.MethodPost, "/api/carts/"+c.ID+"/checkout",
		`{"customerName":"Rami","phoneNumber":"71123456","orderType":"takeaway"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var order model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, "o1", order.ID)

	_, err := f.carts.Get(c.ID)
	assert.ErrorIs(t, err, model.ErrCartNotFound)
	f.orders.AssertExpectations(t)
}

func TestCartHandler_Checkout_KeepsCartOnFailure(t *testing.T) {
	f := newCartFixture()
	c := f.carts.Create()

	f.orders.On("PlaceOrder", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, error(model.ValidationErrors{{Field: "items", Message: "cart is empty"}}))

	rec, _ := f.do(t, http.MethodPost, "/api/carts/"+c.ID+"/checkout", `{"customerName":"Rami","phoneNumber":"71123456"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	_, err := f.carts.Get(c.ID)
	assert.NoError(t, err)
}
