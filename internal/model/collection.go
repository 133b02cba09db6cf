package model

// Collection names used by storage backends, change feeds and stream endpoints.
const (
	CollectionCategories     = "categories"
	CollectionMenuItems      = "burgers"
	CollectionCustomizations = "customizations"
	CollectionOrders         = "orders"
	CollectionDeletedOrders  = "deleted_orders"
)

// Collections lists every collection name.
var Collections = []string{
	CollectionCategories,
	CollectionMenuItems,
	CollectionCustomizations,
	CollectionOrders,
	CollectionDeletedOrders,
}
