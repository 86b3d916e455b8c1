package domain

import "github.com/shopspring/decimal"

// CartEntry pairs a product snapshot with a positive quantity.
type CartEntry struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"` // Effective unit price
}

// LineTotal is the effective unit price times quantity.
func (e CartEntry) LineTotal() decimal.Decimal {
	return e.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// CartState is an immutable view of a cart. ItemCount and Total are always
// derived from Items.
type CartState struct {
	Items     []CartEntry     `json:"items"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
}

// Summary is the checkout breakdown shown on the cart and checkout pages.
type Summary struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Shipping     decimal.Decimal `json:"shipping"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	FreeShipping bool            `json:"freeShipping"`
}
