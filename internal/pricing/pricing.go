// Package pricing derives effective unit prices and the checkout breakdown.
package pricing

import (
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// EffectivePrice returns basePrice * (1 - discount/100). A nil or zero
// discount leaves the price unchanged. Negative prices and discounts outside
// [0, 100] are rejected, not clamped.
func EffectivePrice(basePrice decimal.Decimal, discountPercentage *decimal.Decimal) (decimal.Decimal, error) {
	if basePrice.IsNegative() {
		return decimal.Zero, domain.ErrInvalidPrice
	}
	if discountPercentage == nil || discountPercentage.IsZero() {
		return basePrice, nil
	}

	d := *discountPercentage
	if d.IsNegative() || d.GreaterThan(hundred) {
		return decimal.Zero, domain.ErrInvalidDiscount
	}

	return basePrice.Mul(one.Sub(d.Div(hundred))), nil
}

// ProductPrice is EffectivePrice applied to a catalog snapshot.
func ProductPrice(p domain.Product) (decimal.Decimal, error) {
	return EffectivePrice(p.Price, p.DiscountPercentage)
}
