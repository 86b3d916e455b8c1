package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// --- Interfaces ---

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Product is a read-only catalog snapshot. DiscountPercentage is nil when
// the product carries no discount.
type Product struct {
	ID                 string           `json:"id"`
	Title              string           `json:"title"`
	Description        string           `json:"description,omitempty"`
	Brand              string           `json:"brand"`
	Category           string           `json:"category,omitempty"`
	Thumbnail          string           `json:"thumbnail"`
	Images             []string         `json:"images,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage,omitempty"`
	Rating             float64          `json:"rating"`
	Stock              int              `json:"stock"`
	CreatedAt          time.Time        `json:"createdAt"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductCatalog is the read-only remote catalog used to resolve bare
// product identifiers into snapshots.
type ProductCatalog interface {
	// GetProductByID returns ErrProductNotFound when the id is unknown.
	GetProductByID(ctx context.Context, id string) (*Product, error)
	// GetProductsByIDs skips unknown ids; order of the result is unspecified.
	GetProductsByIDs(ctx context.Context, ids []string) ([]Product, error)
}
