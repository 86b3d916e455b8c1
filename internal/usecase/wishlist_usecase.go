package usecase

import (
	"context"
	"errors"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
)

// WishlistView is what the storefront renders for the wishlist page.
type WishlistView struct {
	Items         []domain.WishlistEntry `json:"items"`
	Authenticated bool                   `json:"authenticated"`
	Loading       bool                   `json:"loading"`
}

type WishlistUsecase struct {
	sessions *SessionUsecase
	catalog  domain.ProductCatalog
}

func NewWishlistUsecase(sessions *SessionUsecase, catalog domain.ProductCatalog) *WishlistUsecase {
	return &WishlistUsecase{
		sessions: sessions,
		catalog:  catalog,
	}
}

func (u *WishlistUsecase) GetMyWishlist(ctx context.Context, visitorID string, auth domain.AuthSnapshot) (*WishlistView, error) {
	s, err := u.sessions.Get(ctx, visitorID)
	if err != nil {
		return nil, err
	}

	items, err := s.Wishlist.Items(ctx, auth)
	if err != nil {
		logger.WithContext(ctx).Error().Err(err).Str("user_id", auth.UserID).Msg("GetMyWishlist failed")
		return nil, err
	}

	return &WishlistView{
		Items:         items,
		Authenticated: s.Wishlist.Authenticated(),
		Loading:       s.Wishlist.Loading(),
	}, nil
}

// AddToWishlist resolves the product so authenticated mode can keep the
// snapshot next to the persisted row. Signed-out visitors can still save
// an id while the catalog is down.
func (u *WishlistUsecase) AddToWishlist(ctx context.Context, visitorID string, auth domain.AuthSnapshot, productID string) error {
	s, err := u.sessions.Get(ctx, visitorID)
	if err != nil {
		return err
	}

	product, err := resolveProduct(ctx, u.catalog, productID)
	if errors.Is(err, domain.ErrRemote) && !auth.Authenticated() {
		// The local wishlist only keeps ids; the snapshot is resolved on read.
		logger.WithContext(ctx).Warn().Err(err).Str("product_id", productID).Msg("Catalog unavailable, storing bare wishlist id")
		product, err = &domain.Product{ID: productID}, nil
	}
	if err != nil {
		return err
	}

	if err := s.Wishlist.Add(ctx, auth, *product); err != nil {
		logger.WithContext(ctx).Error().Err(err).Str("product_id", productID).Msg("AddToWishlist failed")
		return err
	}
	return nil
}

func (u *WishlistUsecase) RemoveFromWishlist(ctx context.Context, visitorID string, auth domain.AuthSnapshot, productID string) error {
	s, err := u.sessions.Get(ctx, visitorID)
	if err != nil {
		return err
	}
	if err := s.Wishlist.Remove(ctx, auth, productID); err != nil {
		logger.WithContext(ctx).Error().Err(err).Str("product_id", productID).Msg("RemoveFromWishlist failed")
		return err
	}
	return nil
}

func (u *WishlistUsecase) IsInWishlist(ctx context.Context, visitorID string, auth domain.AuthSnapshot, productID string) (bool, error) {
	s, err := u.sessions.Get(ctx, visitorID)
	if err != nil {
		return false, err
	}
	return s.Wishlist.IsInWishlist(ctx, auth, productID)
}

// Loading reports whether the visitor's wishlist has remote work in flight.
func (u *WishlistUsecase) Loading(ctx context.Context, visitorID string) bool {
	s, err := u.sessions.Get(ctx, visitorID)
	if err != nil {
		return false
	}
	return s.Wishlist.Loading()
}
