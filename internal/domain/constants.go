package domain

// Order Statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// LocalWishlistKey is the namespaced storage key of the anonymous wishlist.
const LocalWishlistKey = "storefront:wishlist"

// User roles carried in the access token
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)
