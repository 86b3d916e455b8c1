package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
)

type orderRepository struct {
	db DBTX
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

// CreateOrder inserts the order and its items. Run it inside
// TransactionManager.Do so both land together.
func (r *orderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	db := conn(ctx, r.db)
	start := time.Now()

	address, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to encode shipping address: %w", err)
	}

	const insertOrder = `
		INSERT INTO orders (id, user_id, status, subtotal, shipping_fee, tax, total, shipping_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = db.Exec(ctx, insertOrder,
		order.ID, order.UserID, order.Status,
		order.Subtotal, order.ShippingFee, order.Tax, order.Total,
		address, order.CreatedAt,
	)
	if err != nil {
		logger.DBQuery("CreateOrder", time.Since(start), err)
		return err
	}

	// Items go in one round trip
	const insertItem = `
		INSERT INTO order_items (id, order_id, product_id, title, thumbnail, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	batch := &pgx.Batch{}
	for _, item := range order.Items {
		batch.Queue(insertItem, item.ID, order.ID, item.ProductID, item.Title, item.Thumbnail, item.Quantity, item.Price)
	}
	if batch.Len() > 0 {
		err = db.SendBatch(ctx, batch).Close()
	}
	logger.DBQuery("CreateOrder", time.Since(start), err)
	return err
}

// GetByUserID lists the user's orders newest first, items included.
func (r *orderRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	db := conn(ctx, r.db)
	start := time.Now()

	const q = `
		SELECT id, user_id, status, subtotal, shipping_fee, tax, total, shipping_address, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := db.Query(ctx, q, userID)
	if err != nil {
		logger.DBQuery("GetOrdersByUser", time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	index := make(map[string]int)
	ids := make([]string, 0)
	for rows.Next() {
		var (
			o       domain.Order
			address []byte
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.Subtotal, &o.ShippingFee, &o.Tax, &o.Total, &address, &o.CreatedAt); err != nil {
			return nil, err
		}
		if len(address) > 0 {
			if err := json.Unmarshal(address, &o.ShippingAddress); err != nil {
				logger.WithContext(ctx).Warn().Err(err).Str("order_id", o.ID).Msg("Unreadable shipping address")
			}
		}
		o.Items = []domain.OrderItem{}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		logger.DBQuery("GetOrdersByUser", time.Since(start), err)
		return nil, err
	}
	rows.Close()

	if len(ids) == 0 {
		logger.DBQuery("GetOrdersByUser", time.Since(start), nil)
		return orders, nil
	}

	const itemsQ = `
		SELECT id, order_id, product_id, title, thumbnail, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)`
	itemRows, err := db.Query(ctx, itemsQ, ids)
	if err != nil {
		logger.DBQuery("GetOrderItems", time.Since(start), err)
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it domain.OrderItem
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Title, &it.Thumbnail, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	err = itemRows.Err()
	logger.DBQuery("GetOrdersByUser", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return orders, nil
}
