package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/studiofoundry/storefront-service/internal/models"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// InsertOrder persists the order row and fills in the generated ID and
// creation time. Items are inserted separately; the two writes are not
// transactional, matching the reference checkout.
func (r *OrderRepo) InsertOrder(ctx context.Context, o *models.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	const query = `
		INSERT INTO orders (id, user_id, order_number, email, total_amount, coupon_code, discount_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	var couponCode sql.NullString
	if o.CouponCode != nil {
		couponCode = sql.NullString{String: *o.CouponCode, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		o.ID, o.UserID, o.OrderNumber, o.Email, o.TotalAmount, couponCode, o.DiscountAmount, o.Status,
	).Scan(&o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	stmt, err := r.db.PrepareContext(ctx,
		`INSERT INTO order_items (id, order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("prepare insert order_item: %w", err)
	}
	defer stmt.Close()

	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		it := items[i]
		if _, err := stmt.ExecContext(ctx, it.ID, it.OrderID, it.ProductID, it.Quantity, it.Price); err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}
	return nil
}

// GetByNumber loads an order and its items by the human-facing order number.
// Returns (nil, nil) when no order matches.
func (r *OrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	const query = `
		SELECT id, user_id, order_number, email, total_amount, coupon_code, discount_amount, status, created_at
		FROM orders
		WHERE order_number = $1
	`

	var (
		o          models.Order
		couponCode sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, orderNumber).Scan(
		&o.ID, &o.UserID, &o.OrderNumber, &o.Email, &o.TotalAmount,
		&couponCode, &o.DiscountAmount, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	if couponCode.Valid {
		code := couponCode.String
		o.CouponCode = &code
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, price FROM order_items WHERE order_id = $1`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &o, nil
}
