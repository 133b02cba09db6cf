// Package cart builds priced order items and keeps customer carts.
package cart

import (
	"regexp"
	"sort"
	"strings"

	"mechanical-burger/internal/model"

	"github.com/shopspring/decimal"
)

// Signature identifies a cart configuration: the menu item ID plus the sorted
// set of customization IDs. Items with equal signatures merge.
func Signature(item model.OrderItem) string {
	ids := make([]string, len(item.Customizations))
	for i, c := range item.Customizations {
		ids[i] = c.ID
	}
	sort.Strings(ids)
	return item.MenuItem.ID + "|" + strings.Join(ids, ",")
}

// UnitPrice is the menu item price plus every customization delta.
func UnitPrice(menuItem model.MenuItem, customizations []model.CustomizationOption) decimal.Decimal {
	unit := decimal.NewFromFloat(menuItem.Price)
	for _, c := range customizations {
		unit = unit.Add(decimal.NewFromFloat(c.Price))
	}
	return unit
}

// LineTotal is UnitPrice times quantity, rounded to cents.
func LineTotal(menuItem model.MenuItem, customizations []model.CustomizationOption, quantity int) float64 {
	return UnitPrice(menuItem, customizations).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		InexactFloat64()
}

// NewItem prices a new order item.
func NewItem(menuItem model.MenuItem, customizations []model.CustomizationOption, quantity int, comments string) (model.OrderItem, error) {
	if quantity < 1 {
		return model.OrderItem{}, model.ErrInvalidQuantity
	}
	if customizations == nil {
		customizations = []model.CustomizationOption{}
	}

	return model.OrderItem{
		MenuItem:       menuItem,
		Customizations: customizations,
		Quantity:       quantity,
		TotalPrice:     LineTotal(menuItem, customizations, quantity),
		Comments:       model.SanitizeText(comments),
	}, nil
}

// Merge adds item to items. An existing entry with the same signature
// absorbs its quantity and total; otherwise the item is appended.
func Merge(items []model.OrderItem, item model.OrderItem) []model.OrderItem {
	sig := Signature(item)
	for i, existing := range items {
		if Signature(existing) != sig {
			continue
		}
		merged := make([]model.OrderItem, len(items))
		copy(merged, items)
		merged[i].Quantity = existing.Quantity + item.Quantity
		merged[i].TotalPrice = decimal.NewFromFloat(existing.TotalPrice).
			Add(decimal.NewFromFloat(item.TotalPrice)).
			Round(2).
			InexactFloat64()
		return merged
	}
	return append(items, item)
}

// SetQuantity changes the quantity of the item at index and reprices it.
func SetQuantity(items []model.OrderItem, index, quantity int) ([]model.OrderItem, error) {
	if index < 0 || index >= len(items) {
		return nil, model.ErrCartItemNotFound
	}
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	updated := make([]model.OrderItem, len(items))
	copy(updated, items)
	item := updated[index]
	item.Quantity = quantity
	item.TotalPrice = LineTotal(item.MenuItem, item.Customizations, quantity)
	updated[index] = item
	return updated, nil
}

// Remove drops the item at index.
func Remove(items []model.OrderItem, index int) ([]model.OrderItem, error) {
	if index < 0 || index >= len(items) {
		return nil, model.ErrCartItemNotFound
	}
	updated := make([]model.OrderItem, 0, len(items)-1)
	updated = append(updated, items[:index]...)
	return append(updated, items[index+1:]...), nil
}

// Total sums the item totals.
func Total(items []model.OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.TotalPrice))
	}
	return total.Round(2).InexactFloat64()
}

// Lebanese numbering plan: mobile 03, 70, 71, 76, 78, 79, 81 and landline
// 01, 04-09, each followed by six digits.
var phonePattern = regexp.MustCompile(`^(03|70|71|76|78|79|81|01|0[4-9])\d{6}$`)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// ValidPhone reports whether phone is a Lebanese mobile or landline number
// once separators are removed.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

// ValidateCheckout checks the customer fields and that there is something to order.
func ValidateCheckout(customerName, phone string, orderType model.OrderType, items []model.OrderItem) error {
	var errs model.ValidationErrors

	if strings.TrimSpace(customerName) == "" {
		errs.Add("customerName", "Customer name is required")
	}

	switch {
	case strings.TrimSpace(phone) == "":
		errs.Add("phoneNumber", "Phone number is required")
	case !ValidPhone(phone):
		errs.Add("phoneNumber", "Please enter a valid Lebanese phone number")
	}

	if orderType != "" && !orderType.Valid() {
		errs.Add("orderType", "Order type must be dine-in, takeaway or delivery")
	}

	if len(items) == 0 {
		errs.Add("items", "Cart is empty")
	}

	return errs.Err()
}

// Catalog is the menu data used to resolve checkout lines.
type Catalog struct {
	MenuItems      []model.MenuItem
	Customizations []model.CustomizationOption
}

// Resolve turns a checkout line into a priced order item using live menu
// data. Customizations must be active and apply to the item's category.
func (c Catalog) Resolve(line model.CheckoutLine) (model.OrderItem, error) {
	var menuItem *model.MenuItem
	for i := range c.MenuItems {
		if c.MenuItems[i].ID == line.MenuItemID {
			menuItem = &c.MenuItems[i]
			break
		}
	}
	if menuItem == nil {
		return model.OrderItem{}, model.ErrMenuItemNotFound
	}

	selected := make([]model.CustomizationOption, 0, len(line.CustomizationIDs))
	seen := make(map[string]bool, len(line.CustomizationIDs))
	for _, id := range line.CustomizationIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		option, ok := c.customization(id)
		if !ok || !option.IsActive || !option.AppliesTo(menuItem.CategoryID) {
			return model.OrderItem{}, model.ErrCustomizationNotFound
		}
		selected = append(selected, option)
	}

	return NewItem(*menuItem, selected, line.Quantity, line.Comments)
}

func (c Catalog) customization(id string) (model.CustomizationOption, bool) {
	for _, option := range c.Customizations {
		if option.ID == id {
			return option, true
		}
	}
	return model.CustomizationOption{}, false
}
