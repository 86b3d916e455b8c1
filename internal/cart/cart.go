// Package cart holds the in-memory cart aggregate of a visitor session.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"storefront-backend/internal/domain"
	"storefront-backend/internal/pricing"
)

// Cart aggregates at most one entry per product id. itemCount and total are
// recomputed from the entries after every mutation and never set directly.
type Cart struct {
	mu          sync.Mutex
	entries     []domain.CartEntry
	itemCount   int
	total       decimal.Decimal
	maxQuantity int
}

// New returns an empty cart. maxQuantity caps a single entry; 0 disables the cap.
func New(maxQuantity int) *Cart {
	return &Cart{maxQuantity: maxQuantity}
}

// AddItem increments the entry for product.ID by one, inserting it with
// quantity 1 when absent. Stock is not checked here.
func (c *Cart) AddItem(product domain.Product) error {
	if product.ID == "" {
		return domain.ErrInvalidProduct
	}
	if _, err := pricing.ProductPrice(product); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(product.ID); i >= 0 {
		next := c.entries[i].Quantity + 1
		if c.exceedsMax(next) {
			return domain.ErrInvalidQuantity
		}
		c.entries[i].Quantity = next
		// The latest snapshot wins.
		c.entries[i].Product = product
	} else {
		c.entries = append(c.entries, domain.CartEntry{Product: product, Quantity: 1})
	}

	c.recompute()
	return nil
}

// RemoveItem deletes the entry for productID. Unknown ids are a no-op.
func (c *Cart) RemoveItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	c.recompute()
}

// SetQuantity overwrites the quantity of an existing entry. Quantities below
// one are rejected; callers remove entries with RemoveItem. Unknown ids are
// a no-op.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity < 1 || c.exceedsMax(quantity) {
		return domain.ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return nil
	}
	c.entries[i].Quantity = quantity
	c.recompute()
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
	c.recompute()
}

// Deduct lowers each listed entry by the given quantity, dropping entries
// that reach zero. Entries not listed, or added since the quantities were
// taken, are kept.
func (c *Cart) Deduct(quantities map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.entries[:0]
	for _, e := range c.entries {
		e.Quantity -= quantities[e.Product.ID]
		if e.Quantity > 0 {
			kept = append(kept, e)
		}
	}
	c.entries = kept
	c.recompute()
}

// Snapshot returns a copy of the current state.
func (c *Cart) Snapshot() domain.CartState {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]domain.CartEntry, len(c.entries))
	copy(items, c.entries)

	return domain.CartState{
		Items:     items,
		ItemCount: c.itemCount,
		Total:     c.total,
	}
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.itemCount
}

// Total is the sum of effective price times quantity.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.entries {
		if c.entries[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) exceedsMax(quantity int) bool {
	return c.maxQuantity > 0 && quantity > c.maxQuantity
}

// recompute must be called with mu held.
func (c *Cart) recompute() {
	count := 0
	total := decimal.Zero
	for i := range c.entries {
		// Prices were validated on insert; a snapshot cannot become invalid later.
		price, _ := pricing.ProductPrice(c.entries[i].Product)
		c.entries[i].Price = price
		count += c.entries[i].Quantity
		total = total.Add(c.entries[i].LineTotal())
	}
	c.itemCount = count
	c.total = total
}
