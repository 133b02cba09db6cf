package model

import "time"

// OrderStatus is the kitchen lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
)

// OrderStatuses lists the lifecycle in order.
var OrderStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusCompleted}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// OrderType is how the customer receives the order.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine-in"
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDelivery OrderType = "delivery"
)

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	}
	return false
}

// OrderItem is a menu item copied by value at order time together with the
// chosen customizations.
type OrderItem struct {
	MenuItem       MenuItem              `json:"burger" bson:"burger"`
	Customizations []CustomizationOption `json:"customizations" bson:"customizations"`
	Quantity       int                   `json:"quantity" bson:"quantity" validate:"gt=0"`
	TotalPrice     float64               `json:"totalPrice" bson:"totalPrice"`
	Comments       string                `json:"comments,omitempty" bson:"comments,omitempty"`
}

// Order is a customer's submitted purchase.
type Order struct {
	ID            string      `json:"id" bson:"_id" db:"id"`
	CustomerName  string      `json:"customerName" bson:"customerName" db:"customer_name" validate:"required"`
	PhoneNumber   string      `json:"phoneNumber" bson:"phoneNumber" db:"phone_number" validate:"required"`
	Items         []OrderItem `json:"items" bson:"items" db:"items" validate:"required,min=1,dive"`
	TotalAmount   float64     `json:"totalAmount" bson:"totalAmount" db:"total_amount"`
	Status        OrderStatus `json:"status" bson:"status" db:"status" validate:"required,oneof=pending preparing ready completed"`
	EstimatedTime int         `json:"estimatedTime" bson:"estimatedTime" db:"estimated_time"`
	Comments      string      `json:"comments,omitempty" bson:"comments,omitempty" db:"comments"`
	OrderType     OrderType   `json:"orderType" bson:"orderType" db:"order_type"`
	CreatedAt     time.Time   `json:"timestamp" bson:"timestamp" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" bson:"updatedAt" db:"updated_at"`
}

// CheckoutLine is one requested cart line, resolved against the live menu.
type CheckoutLine struct {
	MenuItemID       string   `json:"burgerId"`
	CustomizationIDs []string `json:"customizationIds,omitempty"`
	Quantity         int      `json:"quantity"`
	Comments         string   `json:"comments,omitempty"`
}

// CheckoutRequest is the payload for placing an order.
type CheckoutRequest struct {
	CustomerName string         `json:"customerName"`
	PhoneNumber  string         `json:"phoneNumber"`
	Comments     string         `json:"comments,omitempty"`
	OrderType    OrderType      `json:"orderType,omitempty"`
	Items        []CheckoutLine `json:"items"`
}

// StatusUpdate is the payload for moving an order through the kitchen.
type StatusUpdate struct {
	Status OrderStatus `json:"status"`
}
