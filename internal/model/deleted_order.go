package model

import "time"

// Reasons recorded on archived orders.
const (
	DeleteReasonAdmin          = "admin_delete"
	DeleteReasonCustomerCancel = "customer_cancel"
)

// DeletedCustomization is the flattened form of a customization on an archived item.
type DeletedCustomization struct {
	ID    string            `json:"id" bson:"id"`
	Name  string            `json:"name" bson:"name"`
	Kind  CustomizationKind `json:"type" bson:"type"`
	Price float64           `json:"price" bson:"price"`
}

// DeletedOrderItem is an order item without the nested menu item document.
type DeletedOrderItem struct {
	MenuItemID     string                 `json:"burgerId" bson:"burgerId"`
	MenuItemName   string                 `json:"burgerName" bson:"burgerName"`
	UnitPrice      float64                `json:"unitPrice" bson:"unitPrice"`
	CategoryID     string                 `json:"categoryId,omitempty" bson:"categoryId,omitempty"`
	Quantity       int                    `json:"quantity" bson:"quantity"`
	TotalPrice     float64                `json:"totalPrice" bson:"totalPrice"`
	Comments       string                 `json:"comments,omitempty" bson:"comments,omitempty"`
	Customizations []DeletedCustomization `json:"customizations" bson:"customizations"`
}

// DeletedOrder is the audit record left behind by a soft delete.
type DeletedOrder struct {
	ID              string             `json:"id" bson:"_id" db:"id"`
	OriginalOrderID string             `json:"originalOrderId" bson:"originalOrderId" db:"original_order_id"`
	CustomerName    string             `json:"customerName" bson:"customerName" db:"customer_name"`
	PhoneNumber     string             `json:"phoneNumber" bson:"phoneNumber" db:"phone_number"`
	Items           []DeletedOrderItem `json:"items" bson:"items" db:"items"`
	TotalAmount     float64            `json:"totalAmount" bson:"totalAmount" db:"total_amount"`
	Status          OrderStatus        `json:"status" bson:"status" db:"status"`
	EstimatedTime   int                `json:"estimatedTime" bson:"estimatedTime" db:"estimated_time"`
	Comments        string             `json:"comments,omitempty" bson:"comments,omitempty" db:"comments"`
	OrderType       OrderType          `json:"orderType" bson:"orderType" db:"order_type"`
	OrderedAt       time.Time          `json:"timestamp" bson:"timestamp" db:"ordered_at"`
	DeletedAt       time.Time          `json:"deletedAt" bson:"deletedAt" db:"deleted_at"`
	Reason          string             `json:"reason" bson:"reason" db:"reason"`
}

// NewDeletedOrder flattens an order into its archive form.
func NewDeletedOrder(order Order, reason string, deletedAt time.Time) DeletedOrder {
	items := make([]DeletedOrderItem, len(order.Items))
	for i, item := range order.Items {
		custom := make([]DeletedCustomization, len(item.Customizations))
		for j, c := range item.Customizations {
			custom[j] = DeletedCustomization{ID: c.ID, Name: c.Name, Kind: c.Kind, Price: c.Price}
		}
		items[i] = DeletedOrderItem{
			MenuItemID:     item.MenuItem.ID,
			MenuItemName:   item.MenuItem.Name,
			UnitPrice:      item.MenuItem.Price,
			CategoryID:     item.MenuItem.CategoryID,
			Quantity:       item.Quantity,
			TotalPrice:     item.TotalPrice,
			Comments:       item.Comments,
			Customizations: custom,
		}
	}

	return DeletedOrder{
		OriginalOrderID: order.ID,
		CustomerName:    order.CustomerName,
		PhoneNumber:     order.PhoneNumber,
		Items:           items,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status,
		EstimatedTime:   order.EstimatedTime,
		Comments:        order.Comments,
		OrderType:       order.OrderType,
		OrderedAt:       order.CreatedAt,
		DeletedAt:       deletedAt,
		Reason:          reason,
	}
}

// AsOrder rebuilds an order-shaped view of the archive record, used by
// analytics when deleted orders are included.
func (d DeletedOrder) AsOrder() Order {
	items := make([]OrderItem, len(d.Items))
	for i, item := range d.Items {
		custom := make([]CustomizationOption, len(item.Customizations))
		for j, c := range item.Customizations {
			custom[j] = CustomizationOption{ID: c.ID, Name: c.Name, Kind: c.Kind, Price: c.Price}
		}
		items[i] = OrderItem{
			MenuItem: MenuItem{
				ID:         item.MenuItemID,
				Name:       item.MenuItemName,
				Price:      item.UnitPrice,
				CategoryID: item.CategoryID,
			},
			Customizations: custom,
			Quantity:       item.Quantity,
			TotalPrice:     item.TotalPrice,
			Comments:       item.Comments,
		}
	}

	return Order{
		ID:            d.OriginalOrderID,
		CustomerName:  d.CustomerName,
		PhoneNumber:   d.PhoneNumber,
		Items:         items,
		TotalAmount:   d.TotalAmount,
		Status:        d.Status,
		EstimatedTime: d.EstimatedTime,
		Comments:      d.Comments,
		OrderType:     d.OrderType,
		CreatedAt:     d.OrderedAt,
		UpdatedAt:     d.DeletedAt,
	}
}
