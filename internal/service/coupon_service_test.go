package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiofoundry/storefront-service/internal/models"
)

type fakeCouponRepo struct {
	findFunc      func(ctx context.Context, code string) (*models.Coupon, error)
	incrementFunc func(ctx context.Context, couponID int64, delta int) error

	increments []int64
}

func (f *fakeCouponRepo) FindActiveCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	if f.findFunc != nil {
		return f.findFunc(ctx, code)
	}
	return nil, nil
}

func (f *fakeCouponRepo) IncrementUsage(ctx context.Context, couponID int64, delta int) error {
	f.increments = append(f.increments, couponID)
	if f.incrementFunc != nil {
		return f.incrementFunc(ctx, couponID, delta)
	}
	return nil
}

func intPtr(v int) *int              { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func newCouponServiceAt(repo CouponRepo, now time.Time) *CouponService {
	svc := NewCouponService(repo)
	svc.now = func() time.Time { return now }
	return svc
}

func TestValidate_NormalizesCode(t *testing.T) {
	var gotCode string
	repo := &fakeCouponRepo{
		findFunc: func(ctx context.Context, code string) (*models.Coupon, error) {
			gotCode = code
			return &models.Coupon{ID: 1, Code: code, Active: true}, nil
		},
	}
	svc := NewCouponService(repo)

	c, err := svc.Validate(context.Background(), "  fall2025 ")
	require.NoError(t, err)
	assert.Equal(t, "FALL2025", gotCode)
	assert.Equal(t, "FALL2025", c.Code)
}

func TestValidate_NotFound(t *testing.T) {
	svc := NewCouponService(&fakeCouponRepo{})

	_, err := svc.Validate(context.Background(), "NOPE")
	require.ErrorIs(t, err, ErrCouponNotFound)
	assert.Equal(t, "Invalid coupon code", CouponMessage(err))
}

func TestValidate_EmptyCode(t *testing.T) {
	svc := NewCouponService(&fakeCouponRepo{})

	_, err := svc.Validate(context.Background(), "   ")
	require.ErrorIs(t, err, ErrCouponNotFound)
}

func TestValidate_Exhausted(t *testing.T) {
	repo := &fakeCouponRepo{
		findFunc: func(ctx context.Context, code string) (*models.Coupon, error) {
			return &models.Coupon{ID: 1, Code: code, Active: true, MaxUses: intPtr(5), CurrentUses: 5}, nil
		},
	}
	svc := NewCouponService(repo)

	_, err := svc.Validate(context.Background(), "LIMITED")
	require.ErrorIs(t, err, ErrCouponExhausted)
	assert.Equal(t, "Coupon has reached maximum uses", CouponMessage(err))
}

func TestValidate_Expired(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeCouponRepo{
		findFunc: func(ctx context.Context, code string) (*models.Coupon, error) {
			return &models.Coupon{
				ID:         1,
				Code:       code,
				Active:     true,
				ValidUntil: timePtr(now.Add(-time.Hour)),
			}, nil
		},
	}
	svc := newCouponServiceAt(repo, now)

	_, err := svc.Validate(context.Background(), "OLD")
	require.ErrorIs(t, err, ErrCouponExpired)
	assert.Equal(t, "Coupon has expired", CouponMessage(err))
}

// When a coupon is both exhausted and expired the usage cap wins; the check
// order is existence, then cap, then expiry.
func TestValidate_ExhaustedBeforeExpired(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeCouponRepo{
		findFunc: func(ctx context.Context, code string) (*models.Coupon, error) {
			return &models.Coupon{
				ID:          1,
				Code:        code,
				Active:      true,
				MaxUses:     intPtr(1),
				CurrentUses: 1,
				ValidUntil:  timePtr(now.Add(-time.Hour)),
			}, nil
		},
	}
	svc := newCouponServiceAt(repo, now)

	_, err := svc.Validate(context.Background(), "BOTH")
	require.ErrorIs(t, err, ErrCouponExhausted)
}

func TestValidate_WithinCapAndUnexpired(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeCouponRepo{
		findFunc: func(ctx context.Context, code string) (*models.Coupon, error) {
			return &models.Coupon{
				ID:            7,
				Code:          code,
				Active:        true,
				DiscountType:  models.DiscountPercentage,
				DiscountValue: 10,
				MaxUses:       intPtr(100),
				CurrentUses:   99,
				ValidUntil:    timePtr(now.Add(24 * time.Hour)),
			}, nil
		},
	}
	svc := newCouponServiceAt(repo, now)

	c, err := svc.Validate(context.Background(), "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.ID)
	assert.Equal(t, 10.0, c.DiscountValue)
}

func TestValidate_RepoError(t *testing.T) {
	repo := &fakeCouponRepo{
		findFunc: func(ctx context.Context, code string) (*models.Coupon, error) {
			return nil, errors.New("db down")
		},
	}
	svc := NewCouponService(repo)

	_, err := svc.Validate(context.Background(), "ANY")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCouponNotFound)
	assert.Empty(t, CouponMessage(err))
}
