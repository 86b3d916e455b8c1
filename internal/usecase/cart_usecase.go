package usecase

import (
	"context"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/pricing"
	"storefront-backend/pkg/logger"
)

type CartUsecase struct {
	sessions *SessionUsecase
	catalog  domain.ProductCatalog
	rules    pricing.Rules
}

func NewCartUsecase(sessions *SessionUsecase, catalog domain.ProductCatalog, rules pricing.Rules) *CartUsecase {
	return &CartUsecase{
		sessions: sessions,
		catalog:  catalog,
		rules:    rules,
	}
}

func (u *CartUsecase) GetMyCart(ctx context.Context, visitorID string) (domain.CartState, error) {
	s, err := u.sessions.Get(ctx, visitorID)
	if err != nil {
		return domain.CartState{}, err
	}
	return s.Cart.Snapshot(), nil
}

// AddToCart resolves the product snapshot and increments its entry by one.
func (u *CartUsecase) AddToCart(ctx context.Context, visitorID, productID string) (domain.CartState, error) {
	s, err := u.sessions.Get(ctx, visitorID)
	if err != nil {
		return domain.CartState{}, err
	}

	product, err := resolveProduct(ctx, u.catalog, productID)
	if err != nil {
		return domain.CartState{}, err
	}

	if err := s.Cart.AddItem(*product); err != nil {
		logger.WithContext(ctx).Warn().Err(err).Str("product_id", productID).Msg("AddToCart rejected")
		return domain.CartState{}, err
	}
	return s.Cart.Snapshot(), nil
}

func (u *CartUsecase) RemoveFromCart(ctx context.Context, visitorID, productID string) (domain.CartState, error) {
	s, err := u.sessions.Get(ctx, visitorID)
	if err != nil {
		return domain.CartState{}, err
	}
	s.Cart.RemoveItem(productID)
	return s.Cart.Snapshot(), nil
}

func (u *CartUsecase) UpdateCartItemQuantity(ctx context.Context, visitorID, productID string, quantity int) (domain.CartState, error) {
	s, err := u.sessions.Get(ctx, visitorID)
	if err != nil {
		return domain.CartState{}, err
	}
	if err := s.Cart.SetQuantity(productID, quantity); err != nil {
		return domain.CartState{}, err
	}
	return s.Cart.Snapshot(), nil
}

func (u *CartUsecase) ClearCart(ctx context.Context, visitorID string) (domain.CartState, error) {
	s, err := u.sessions.Get(ctx, visitorID)
	if err != nil {
		return domain.CartState{}, err
	}
	s.Cart.Clear()
	return s.Cart.Snapshot(), nil
}

// GetSummary is the shipping/tax breakdown of the current cart.
func (u *CartUsecase) GetSummary(ctx context.Context, visitorID string) (domain.Summary, error) {
	s, err := u.sessions.Get(ctx, visitorID)
	if err != nil {
		return domain.Summary{}, err
	}
	return pricing.Summarize(s.Cart.Total(), u.rules), nil
}
