package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studiofoundry/storefront-service/internal/models"
)

// CouponRepo is the narrow backend surface the validator needs. Implementations
// return (nil, nil) when no active coupon matches the code.
type CouponRepo interface {
	FindActiveCoupon(ctx context.Context, code string) (*models.Coupon, error)
	IncrementUsage(ctx context.Context, couponID int64, delta int) error
}

// Rejection reasons, ordered: existence, usage cap, expiry. The order decides
// which message the user sees when several conditions fail at once.
var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrCouponExpired   = errors.New("coupon expired")
)

// CouponMessage maps a validation error to the message shown to the user.
func CouponMessage(err error) string {
	switch {
	case errors.Is(err, ErrCouponNotFound):
		return "Invalid coupon code"
	case errors.Is(err, ErrCouponExhausted):
		return "Coupon has reached maximum uses"
	case errors.Is(err, ErrCouponExpired):
		return "Coupon has expired"
	default:
		return ""
	}
}

type CouponService struct {
	repo CouponRepo
	now  func() time.Time
}

func NewCouponService(repo CouponRepo) *CouponService {
	return &CouponService{
		repo: repo,
		now:  time.Now,
	}
}

// Validate normalizes the code, looks it up and applies the eligibility rules.
// On success it returns the coupon snapshot for the caller to store as the
// session's applied coupon.
func (s *CouponService) Validate(ctx context.Context, code string) (*models.Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrCouponNotFound
	}

	c, err := s.repo.FindActiveCoupon(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	if c == nil {
		return nil, ErrCouponNotFound
	}

	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return nil, ErrCouponExhausted
	}

	if c.ValidUntil != nil && c.ValidUntil.Before(s.now()) {
		return nil, ErrCouponExpired
	}

	return c, nil
}
