package domain

import (
	"context"
	"time"
)

// WishlistEntry is a product identifier with an optional snapshot. Remote
// entries always carry Product; local entries only once resolved.
type WishlistEntry struct {
	ProductID string    `json:"productId"`
	Product   *Product  `json:"product,omitempty"`
	AddedAt   time.Time `json:"addedAt,omitempty"`
}

// RemoteWishlistItem is one persisted (user, product) row joined with its product.
type RemoteWishlistItem struct {
	ProductID string    `json:"productId"`
	Product   Product   `json:"product"`
	AddedAt   time.Time `json:"addedAt"`
}

// RemoteWishlistStore persists wishlist rows scoped to a user.
type RemoteWishlistStore interface {
	// ListForUser returns the user's rows, newest first.
	ListForUser(ctx context.Context, userID string) ([]RemoteWishlistItem, error)
	// Upsert inserts the (user, product) row; an existing row is a successful no-op.
	Upsert(ctx context.Context, userID, productID string) error
	// Delete removes the row; a missing row is not an error.
	Delete(ctx context.Context, userID, productID string) error
}
