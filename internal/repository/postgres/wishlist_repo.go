package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
)

type wishlistRepository struct {
	db DBTX
}

// NewWishlistRepository is the remote wishlist store. Rows are unique per
// (user_id, product_id).
func NewWishlistRepository(db *pgxpool.Pool) domain.RemoteWishlistStore {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) ListForUser(ctx context.Context, userID string) ([]domain.RemoteWishlistItem, error) {
	const q = `
		SELECT w.created_at, p.id, p.title, p.description, p.brand, p.category, p.thumbnail, p.images,
			p.price, p.discount_percentage, p.rating, p.stock, p.created_at
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`

	start := time.Now()
	rows, err := conn(ctx, r.db).Query(ctx, q, userID)
	if err != nil {
		logger.DBQuery("ListWishlist", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.RemoteWishlistItem, 0)
	for rows.Next() {
		var addedAt time.Time
		p, err := scanProduct(prefixedRow{row: rows, dest: []any{&addedAt}})
		if err != nil {
			return nil, err
		}
		items = append(items, domain.RemoteWishlistItem{
			ProductID: p.ID,
			Product:   p,
			AddedAt:   addedAt,
		})
	}
	err = rows.Err()
	logger.DBQuery("ListWishlist", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert leaves an existing row (and its created_at) untouched.
func (r *wishlistRepository) Upsert(ctx context.Context, userID, productID string) error {
	const q = `
		INSERT INTO wishlist_items (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`

	start := time.Now()
	_, err := conn(ctx, r.db).Exec(ctx, q, userID, productID)
	logger.DBQuery("UpsertWishlistItem", time.Since(start), err)
	return err
}

func (r *wishlistRepository) Delete(ctx context.Context, userID, productID string) error {
	const q = `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`

	start := time.Now()
	_, err := conn(ctx, r.db).Exec(ctx, q, userID, productID)
	logger.DBQuery("DeleteWishlistItem", time.Since(start), err)
	return err
}

// prefixedRow scans leading columns into dest before handing the rest to
// the wrapped row's caller.
type prefixedRow struct {
	row  interface{ Scan(dest ...any) error }
	dest []any
}

func (p prefixedRow) Scan(dest ...any) error {
	return p.row.Scan(append(p.dest, dest...)...)
}
