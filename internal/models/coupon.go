package models

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a point-in-time snapshot of a coupon_codes row. Codes are stored
// upper-cased; lookups normalize before matching.
type Coupon struct {
	ID            int64        `json:"id"`
	Code          string       `json:"code"`
	Active        bool         `json:"active"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue float64      `json:"discountValue"`
	MaxUses       *int         `json:"maxUses,omitempty"`
	CurrentUses   int          `json:"currentUses"`
	ValidUntil    *time.Time   `json:"validUntil,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
}
