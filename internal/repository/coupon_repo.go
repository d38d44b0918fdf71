package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/studiofoundry/storefront-service/internal/models"
)

type CouponRepo struct {
	db *sql.DB
}

func NewCouponRepo(db *sql.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

// FindActiveCoupon returns the active coupon matching the code, or (nil, nil)
// when there is none. Inactive coupons are indistinguishable from missing ones
// on purpose: both surface as "Invalid coupon code".
func (r *CouponRepo) FindActiveCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	const query = `
		SELECT id, code, active, discount_type, discount_value,
		       max_uses, current_uses, valid_until, created_at
		FROM coupon_codes
		WHERE code = $1 AND active = TRUE
	`

	var (
		c          models.Coupon
		maxUses    sql.NullInt64
		validUntil sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&c.ID,
		&c.Code,
		&c.Active,
		&c.DiscountType,
		&c.DiscountValue,
		&maxUses,
		&c.CurrentUses,
		&validUntil,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select coupon: %w", err)
	}

	if maxUses.Valid {
		v := int(maxUses.Int64)
		c.MaxUses = &v
	}
	if validUntil.Valid {
		t := validUntil.Time
		c.ValidUntil = &t
	}

	return &c, nil
}

// IncrementUsage bumps current_uses by delta. The update is atomic at the row
// level but callers do not re-check the cap, so the cap can still be exceeded
// by concurrent checkouts.
func (r *CouponRepo) IncrementUsage(ctx context.Context, couponID int64, delta int) error {
	const query = `UPDATE coupon_codes SET current_uses = current_uses + $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, couponID, delta)
	if err != nil {
		return fmt.Errorf("update coupon usage: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("coupon %d not found", couponID)
	}
	return nil
}

// Create inserts a coupon row, upper-casing the code, and fills in the
// generated ID and creation time.
func (r *CouponRepo) Create(ctx context.Context, c *models.Coupon) error {
	const query = `
		INSERT INTO coupon_codes (code, active, discount_type, discount_value, max_uses, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, current_uses, created_at
	`

	var maxUses sql.NullInt64
	if c.MaxUses != nil {
		maxUses = sql.NullInt64{Int64: int64(*c.MaxUses), Valid: true}
	}
	var validUntil sql.NullTime
	if c.ValidUntil != nil {
		validUntil = sql.NullTime{Time: *c.ValidUntil, Valid: true}
	}

	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))

	err := r.db.QueryRowContext(ctx, query,
		c.Code, c.Active, c.DiscountType, c.DiscountValue, maxUses, validUntil,
	).Scan(&c.ID, &c.CurrentUses, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}
