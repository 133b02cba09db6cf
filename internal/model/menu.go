package model

import "time"

// Category groups menu items and optionally scopes customization options.
type Category struct {
	ID          string    `json:"id" bson:"_id" db:"id"`
	Name        string    `json:"name" bson:"name" db:"name" validate:"required,max=100"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" db:"description" validate:"max=500"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt" db:"updated_at"`
}

// CategoryPatch carries a partial category update. Nil fields are left untouched.
type CategoryPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// MenuItem is a purchasable burger with a base price and ingredient list.
type MenuItem struct {
	ID          string    `json:"id" bson:"_id" db:"id"`
	Name        string    `json:"name" bson:"name" db:"name" validate:"required,max=100"`
	Price       float64   `json:"price" bson:"price" db:"price" validate:"gte=0,cents"`
	Image       string    `json:"image" bson:"image" db:"image"`
	Ingredients []string  `json:"ingredients" bson:"ingredients" db:"ingredients"`
	CategoryID  string    `json:"category,omitempty" bson:"category,omitempty" db:"category_id"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt" db:"updated_at"`
}

// MenuItemPatch carries a partial menu item update.
type MenuItemPatch struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gte=0,cents"`
	Image       *string   `json:"image,omitempty"`
	Ingredients *[]string `json:"ingredients,omitempty"`
	CategoryID  *string   `json:"category,omitempty"`
}

// CustomizationKind tells how an option changes a menu item.
type CustomizationKind string

const (
	CustomizationRemove CustomizationKind = "remove"
	CustomizationAdd    CustomizationKind = "add"
	CustomizationExtra  CustomizationKind = "extra"
)

// Valid reports whether k is a known kind.
func (k CustomizationKind) Valid() bool {
	switch k {
	case CustomizationRemove, CustomizationAdd, CustomizationExtra:
		return true
	}
	return false
}

// CustomizationOption is an add-on or removal with a price delta.
type CustomizationOption struct {
	ID         string            `json:"id" bson:"_id" db:"id"`
	Name       string            `json:"name" bson:"name" db:"name" validate:"required,max=100"`
	Kind       CustomizationKind `json:"type" bson:"type" db:"kind" validate:"required,oneof=remove add extra"`
	Price      float64           `json:"price" bson:"price" db:"price" validate:"gte=0,cents"`
	CategoryID string            `json:"category,omitempty" bson:"category,omitempty" db:"category_id"`
	IsActive   bool              `json:"isActive" bson:"isActive" db:"is_active"`
	CreatedAt  time.Time         `json:"createdAt" bson:"createdAt" db:"created_at"`
	UpdatedAt  time.Time         `json:"updatedAt" bson:"updatedAt" db:"updated_at"`
}

// AppliesTo reports whether the option may be offered for a menu item in categoryID.
// Options without a category apply everywhere.
func (c CustomizationOption) AppliesTo(categoryID string) bool {
	return c.CategoryID == "" || c.CategoryID == categoryID
}

// CustomizationPatch carries a partial customization update.
type CustomizationPatch struct {
	Name       *string            `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Kind       *CustomizationKind `json:"type,omitempty" validate:"omitempty,oneof=remove add extra"`
	Price      *float64           `json:"price,omitempty" validate:"omitempty,gte=0,cents"`
	CategoryID *string            `json:"category,omitempty"`
	IsActive   *bool              `json:"isActive,omitempty"`
}

// Menu is the customer-facing view of the catalogue.
type Menu struct {
	Categories     []Category            `json:"categories"`
	Burgers        []MenuItem            `json:"burgers"`
	Customizations []CustomizationOption `json:"customizations"`
}
