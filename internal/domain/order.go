package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// --- Order Entities ---

type ShippingAddress struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

// Missing returns the names of the empty required fields.
func (a ShippingAddress) Missing() []string {
	fields := []struct {
		name  string
		value string
	}{
		{"fullName", a.FullName},
		{"address", a.Address},
		{"city", a.City},
		{"state", a.State},
		{"zipCode", a.ZipCode},
		{"country", a.Country},
		{"phone", a.Phone},
	}

	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Status          string          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingFee     decimal.Decimal `json:"shippingFee"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Thumbnail string          `json:"thumbnail"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"` // Effective price at time of purchase
}

// --- Interfaces ---

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetByUserID(ctx context.Context, userID string) ([]Order, error)
}
