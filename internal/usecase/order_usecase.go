package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/pricing"
	"storefront-backend/pkg/logger"
)

type OrderUsecase struct {
	sessions  *SessionUsecase
	orderRepo domain.OrderRepository
	txManager domain.TransactionManager
	rules     pricing.Rules
	now       func() time.Time
}

func NewOrderUsecase(sessions *SessionUsecase, repo domain.OrderRepository, txManager domain.TransactionManager, rules pricing.Rules) *OrderUsecase {
	return &OrderUsecase{
		sessions:  sessions,
		orderRepo: repo,
		txManager: txManager,
		rules:     rules,
		now:       time.Now,
	}
}

// Checkout places an order for the visitor's cart and takes the ordered
// lines out of the cart once the order is persisted. Item prices are the
// effective prices at the moment of purchase, in cents.
func (u *OrderUsecase) Checkout(ctx context.Context, visitorID string, auth domain.AuthSnapshot, address domain.ShippingAddress) (*domain.Order, error) {
	log := logger.WithContext(ctx)

	if !auth.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if missing := address.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing shipping fields: %s", domain.ErrInvalidArgument, strings.Join(missing, ", "))
	}

	s, err := u.sessions.Get(ctx, visitorID)
	if err != nil {
		return nil, err
	}

	// 1. Freeze the cart
	state := s.Cart.Snapshot()
	if len(state.Items) == 0 {
		return nil, domain.ErrCartEmpty
	}

	// 2. Price it. Lines are charged in cents so the stored items add up
	// to the stored subtotal.
	orderID := uuid.NewString()
	ordered := make(map[string]int, len(state.Items))
	items := make([]domain.OrderItem, 0, len(state.Items))
	subtotal := decimal.Zero
	for _, entry := range state.Items {
		price := entry.Price.Round(2)
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(entry.Quantity))))
		ordered[entry.Product.ID] += entry.Quantity
		items = append(items, domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   orderID,
			ProductID: entry.Product.ID,
			Title:     entry.Product.Title,
			Thumbnail: entry.Product.Thumbnail,
			Quantity:  entry.Quantity,
			Price:     price,
		})
	}
	summary := pricing.Summarize(subtotal, u.rules)

	order := &domain.Order{
		ID:              orderID,
		UserID:          auth.UserID,
		Status:          domain.OrderStatusPending,
		Subtotal:        summary.Subtotal,
		ShippingFee:     summary.Shipping,
		Tax:             summary.Tax,
		Total:           summary.Total,
		ShippingAddress: address,
		Items:           items,
		CreatedAt:       u.now(),
	}

	// 3. Persist atomically
	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		return u.orderRepo.CreateOrder(txCtx, order)
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", auth.UserID).Msg("Checkout failed, cart kept")
		return nil, &domain.RemoteError{Op: "place order", Err: err}
	}

	// 4. Take the ordered lines out; anything added meanwhile stays
	s.Cart.Deduct(ordered)
	log.Info().Str("order_id", order.ID).Str("user_id", auth.UserID).Str("total", order.Total.StringFixed(2)).Msg("Order placed")
	return order, nil
}

func (u *OrderUsecase) GetMyOrders(ctx context.Context, auth domain.AuthSnapshot) ([]domain.Order, error) {
	if !auth.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	orders, err := u.orderRepo.GetByUserID(ctx, auth.UserID)
	if err != nil {
		return nil, &domain.RemoteError{Op: "list orders", Err: err}
	}
	return orders, nil
}
