package service

import "github.com/studiofoundry/storefront-service/internal/models"

// DiscountAmount computes the discount a coupon takes off the subtotal.
// Percentage coupons scale with the subtotal; fixed coupons are applied as-is
// and are not capped here — only the final total is clamped.
func DiscountAmount(subtotal float64, c *models.Coupon) float64 {
	if c == nil {
		return 0
	}
	if c.DiscountType == models.DiscountPercentage {
		return subtotal * c.DiscountValue / 100
	}
	return c.DiscountValue
}

// FinalTotal clamps the discounted total at zero so a large fixed discount
// can never drive it negative.
func FinalTotal(subtotal, discount float64) float64 {
	if total := subtotal - discount; total > 0 {
		return total
	}
	return 0
}
