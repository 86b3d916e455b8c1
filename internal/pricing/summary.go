package pricing

import (
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domain"
)

// Rules configures shipping and tax for the checkout breakdown.
type Rules struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
}

// DefaultRules: free shipping above 50, otherwise 5.99; 8% tax.
func DefaultRules() Rules {
	return Rules{
		FreeShippingThreshold: decimal.NewFromInt(50),
		ShippingFee:           decimal.RequireFromString("5.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// Summarize computes shipping, tax and the order total for a cart subtotal.
// Shipping is waived strictly above the threshold and for an empty cart.
func Summarize(subtotal decimal.Decimal, rules Rules) domain.Summary {
	free := subtotal.GreaterThan(rules.FreeShippingThreshold) || subtotal.IsZero()

	shipping := rules.ShippingFee
	if free {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(rules.TaxRate).Round(2)

	return domain.Summary{
		Subtotal:     subtotal.Round(2),
		Shipping:     shipping.Round(2),
		Tax:          tax,
		Total:        subtotal.Add(shipping).Add(tax).Round(2),
		FreeShipping: free && !subtotal.IsZero(),
	}
}
