package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
)

const productColumns = `id, title, description, brand, category, thumbnail, images,
	price, discount_percentage, rating, stock, created_at`

type productRepository struct {
	db DBTX
}

// NewProductRepository is the read-only remote catalog.
func NewProductRepository(db *pgxpool.Pool) domain.ProductCatalog {
	return &productRepository{db: db}
}

// --- Mappers ---

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p        domain.Product
		discount decimal.NullDecimal
		images   []string
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Brand, &p.Category, &p.Thumbnail, &images,
		&p.Price, &discount, &p.Rating, &p.Stock, &p.CreatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	p.Images = images
	if discount.Valid {
		d := discount.Decimal
		p.DiscountPercentage = &d
	}
	return p, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	start := time.Now()
	p, err := scanProduct(conn(ctx, r.db).QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	logger.DBQuery("GetProductByID", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	start := time.Now()
	rows, err := conn(ctx, r.db).Query(ctx, q, ids)
	if err != nil {
		logger.DBQuery("GetProductsByIDs", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	err = rows.Err()
	logger.DBQuery("GetProductsByIDs", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return products, nil
}
