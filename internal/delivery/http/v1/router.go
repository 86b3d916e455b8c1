package v1

import (
	"net/http"

	"storefront-backend/internal/delivery/http/middleware"
)

type Handlers struct {
	Cart         *CartHandler
	Wishlist     *WishlistHandler
	Order        *OrderHandler
	Catalog      *CatalogHandler
	AdminCatalog *AdminCatalogHandler
	Health       *HealthHandler
}

// NewRouter registers the storefront routes. Every route runs behind the
// visitor middleware, so handlers can rely on middleware.VisitorID.
func NewRouter(h Handlers, visitor func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	optional := func(fn http.HandlerFunc) http.Handler {
		return middleware.OptionalAuth(fn)
	}
	protected := func(fn http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(fn)
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(fn))
	}

	// Catalog (Public)
	mux.HandleFunc("GET /api/v1/products", h.Catalog.GetProductsByIDs)
	mux.HandleFunc("GET /api/v1/products/{productId}", h.Catalog.GetProductByID)

	// Cart
	mux.Handle("GET /api/v1/cart", optional(h.Cart.GetCart))
	mux.Handle("POST /api/v1/cart", optional(h.Cart.AddToCart))
	mux.Handle("PUT /api/v1/cart", optional(h.Cart.UpdateCartItem))
	mux.Handle("DELETE /api/v1/cart/{productId}", optional(h.Cart.RemoveFromCart))
	mux.Handle("DELETE /api/v1/cart", optional(h.Cart.ClearCart))
	mux.Handle("GET /api/v1/cart/summary", optional(h.Cart.GetSummary))

	// Wishlist
	mux.Handle("GET /api/v1/wishlist", optional(h.Wishlist.GetMyWishlist))
	mux.Handle("GET /api/v1/wishlist/{productId}", optional(h.Wishlist.CheckItem))
	mux.Handle("POST /api/v1/wishlist", optional(h.Wishlist.AddToWishlist))
	mux.Handle("DELETE /api/v1/wishlist/{productId}", optional(h.Wishlist.RemoveFromWishlist))

	// Checkout & Orders (Protected)
	mux.Handle("POST /api/v1/checkout", protected(h.Order.Checkout))
	mux.Handle("GET /api/v1/orders", protected(h.Order.GetMyOrders))

	// Admin
	mux.Handle("DELETE /api/v1/admin/cache/products/{productId}", admin(h.AdminCatalog.InvalidateProduct))

	// Health Check
	mux.HandleFunc("GET /api/v1/health", h.Health.Check)
	mux.HandleFunc("GET /health", h.Health.Check) // Support root health check for Load Balancers

	return visitor(mux)
}
