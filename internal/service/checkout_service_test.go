package service

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiofoundry/storefront-service/internal/models"
	"github.com/studiofoundry/storefront-service/internal/notify"
	"github.com/studiofoundry/storefront-service/internal/session"
)

type fakeOrderRepo struct {
	insertOrderFunc func(ctx context.Context, o *models.Order) error
	insertItemsFunc func(ctx context.Context, items []models.OrderItem) error

	orders []*models.Order
	items  []models.OrderItem
}

func (f *fakeOrderRepo) InsertOrder(ctx context.Context, o *models.Order) error {
	if f.insertOrderFunc != nil {
		if err := f.insertOrderFunc(ctx, o); err != nil {
			return err
		}
	}
	if o.ID == "" {
		o.ID = "order-1"
	}
	f.orders = append(f.orders, o)
	return nil
}

func (f *fakeOrderRepo) InsertOrderItems(ctx context.Context, items []models.OrderItem) error {
	if f.insertItemsFunc != nil {
		if err := f.insertItemsFunc(ctx, items); err != nil {
			return err
		}
	}
	f.items = append(f.items, items...)
	return nil
}

func (f *fakeOrderRepo) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, nil
}

type fakeNotifier struct {
	err   error
	calls []notify.OrderConfirmation
}

func (f *fakeNotifier) SendOrderConfirmation(_ context.Context, conf notify.OrderConfirmation) error {
	f.calls = append(f.calls, conf)
	return f.err
}

type fixedOrderNumber string

func (f fixedOrderNumber) OrderNumber() string { return string(f) }

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newCheckoutFixture() (*CheckoutService, *fakeOrderRepo, *fakeCouponRepo, *fakeNotifier) {
	orders := &fakeOrderRepo{}
	coupons := &fakeCouponRepo{}
	notifier := &fakeNotifier{}
	svc := NewCheckoutService(orders, coupons, notifier, fixedOrderNumber("TESTORDER"), discardLogger())
	return svc, orders, coupons, notifier
}

func sessionWithItems(t *testing.T) *session.Session {
	t.Helper()
	sess := session.NewRegistry().Create()
	sess.Add(models.CartItem{ProductID: "p1", Title: "Ten", Price: 10, Category: "digital"})
	sess.Add(models.CartItem{ProductID: "p2", Title: "Twenty", Price: 20, Category: "digital"})
	return sess
}

func TestCheckout_NoCoupon(t *testing.T) {
	svc, orders, coupons, notifier := newCheckoutFixture()
	sess := sessionWithItems(t)

	o, err := svc.Checkout(context.Background(), sess, CheckoutRequest{UserID: "user-1", Email: "buyer@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "TESTORDER", o.OrderNumber)
	assert.Equal(t, 30.0, o.TotalAmount)
	assert.Equal(t, 0.0, o.DiscountAmount)
	assert.Nil(t, o.CouponCode)
	assert.Equal(t, models.OrderCompleted, o.Status)

	require.Len(t, orders.orders, 1)
	require.Len(t, orders.items, 2)
	for _, it := range orders.items {
		assert.Equal(t, o.ID, it.OrderID)
		assert.Equal(t, 1, it.Quantity)
	}
	assert.Empty(t, coupons.increments)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "buyer@example.com", notifier.calls[0].Email)
	assert.Equal(t, 30.0, notifier.calls[0].Total)

	assert.Equal(t, 0, sess.ItemCount())
	assert.Equal(t, session.PhaseCompleted, sess.Phase())
}

func TestCheckout_PercentageCoupon(t *testing.T) {
	svc, orders, coupons, _ := newCheckoutFixture()
	sess := sessionWithItems(t)
	sess.ApplyCoupon(&models.Coupon{
		ID:            42,
		Code:          "SAVE10",
		Active:        true,
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
	})

	o, err := svc.Checkout(context.Background(), sess, CheckoutRequest{UserID: "user-1", Email: "buyer@example.com"})
	require.NoError(t, err)

	assert.Equal(t, 3.0, o.DiscountAmount)
	assert.Equal(t, 27.0, o.TotalAmount)
	require.NotNil(t, o.CouponCode)
	assert.Equal(t, "SAVE10", *o.CouponCode)

	require.Len(t, coupons.increments, 1)
	assert.Equal(t, int64(42), coupons.increments[0])

	require.Len(t, orders.orders, 1)
	assert.Nil(t, sess.AppliedCoupon())
	assert.Equal(t, session.PhaseCompleted, sess.Phase())
}

func TestCheckout_FixedCouponClampsTotal(t *testing.T) {
	svc, _, _, _ := newCheckoutFixture()
	sess := sessionWithItems(t)
	sess.ApplyCoupon(&models.Coupon{
		ID:            7,
		Code:          "BIGFIFTY",
		Active:        true,
		DiscountType:  models.DiscountFixed,
		DiscountValue: 50,
	})

	o, err := svc.Checkout(context.Background(), sess, CheckoutRequest{UserID: "user-1", Email: "buyer@example.com"})
	require.NoError(t, err)

	assert.Equal(t, 50.0, o.DiscountAmount)
	assert.Equal(t, 0.0, o.TotalAmount)
}

func TestCheckout_EmptyEmailAbortsBeforeAnyWrite(t *testing.T) {
	svc, orders, coupons, notifier := newCheckoutFixture()
	sess := sessionWithItems(t)

	_, err := svc.Checkout(context.Background(), sess, CheckoutRequest{UserID: "user-1", Email: "  "})
	require.ErrorIs(t, err, ErrEmailRequired)

	assert.Empty(t, orders.orders)
	assert.Empty(t, orders.items)
	assert.Empty(t, coupons.increments)
	assert.Empty(t, notifier.calls)

	assert.Equal(t, 2, sess.ItemCount())
	assert.Equal(t, session.PhaseIdle, sess.Phase())
}

func TestCheckout_MissingUserAbortsBeforeAnyWrite(t *testing.T) {
	svc, orders, _, _ := newCheckoutFixture()
	sess := sessionWithItems(t)

	_, err := svc.Checkout(context.Background(), sess, CheckoutRequest{Email: "buyer@example.com"})
	require.ErrorIs(t, err, ErrNotAuthenticated)

	assert.Empty(t, orders.orders)
	assert.Equal(t, 2, sess.ItemCount())
}

func TestCheckout_EmptyCart(t *testing.T) {
	svc, orders, _, _ := newCheckoutFixture()
	sess := session.NewRegistry().Create()

	_, err := svc.Checkout(context.Background(), sess, CheckoutRequest{UserID: "user-1", Email: "buyer@example.com"})
	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, orders.orders)
}

func TestCheckout_OrderInsertFailureKeepsCart(t *testing.T) {
	svc, orders, coupons, notifier := newCheckoutFixture()
	orders.insertOrderFunc = func(ctx context.Context, o *models.Order) error {
		return errors.New("db down")
	}
	sess := sessionWithItems(t)

	_, err := svc.Checkout(context.Background(), sess, CheckoutRequest{UserID: "user-1", Email: "buyer@example.com"})
	require.Error(t, err)

	assert.Empty(t, orders.orders)
	assert.Empty(t, orders.items)
	assert.Empty(t, coupons.increments)
	assert.Empty(t, notifier.calls)

	// cart stays intact so the user can retry
	assert.Equal(t, 2, sess.ItemCount())
	assert.Equal(t, session.PhaseFailed, sess.Phase())
}

func TestCheckout_ItemInsertFailureLeavesOrderBehind(t *testing.T) {
	svc, orders, _, notifier := newCheckoutFixture()
	orders.insertItemsFunc = func(ctx context.Context, items []models.OrderItem) error {
		return errors.New("db down")
	}
	sess := sessionWithItems(t)

	_, err := svc.Checkout(context.Background(), sess, CheckoutRequest{UserID: "user-1", Email: "buyer@example.com"})
	require.Error(t, err)

	// the sequence is not transactional: the order row survives the failure
	require.Len(t, orders.orders, 1)
	assert.Empty(t, orders.items)
	assert.Empty(t, notifier.calls)

	assert.Equal(t, 2, sess.ItemCount())
	assert.Equal(t, session.PhaseFailed, sess.Phase())
}

func TestCheckout_UsageIncrementFailureDoesNotFailOrder(t *testing.T) {
	svc, orders, coupons, notifier := newCheckoutFixture()
	coupons.incrementFunc = func(ctx context.Context, couponID int64, delta int) error {
		return errors.New("db down")
	}
	sess := sessionWithItems(t)
	sess.ApplyCoupon(&models.Coupon{ID: 1, Code: "SAVE10", DiscountType: models.DiscountPercentage, DiscountValue: 10})

	o, err := svc.Checkout(context.Background(), sess, CheckoutRequest{UserID: "user-1", Email: "buyer@example.com"})
	require.NoError(t, err)

	assert.Equal(t, 27.0, o.TotalAmount)
	require.Len(t, orders.orders, 1)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, session.PhaseCompleted, sess.Phase())
}

func TestCheckout_NotificationFailureDoesNotFailOrder(t *testing.T) {
	svc, orders, _, notifier := newCheckoutFixture()
	notifier.err = errors.New("smtp down")
	sess := sessionWithItems(t)

	o, err := svc.Checkout(context.Background(), sess, CheckoutRequest{UserID: "user-1", Email: "buyer@example.com"})
	require.NoError(t, err)

	assert.Equal(t, models.OrderCompleted, o.Status)
	require.Len(t, orders.orders, 1)
	assert.Equal(t, 0, sess.ItemCount())
	assert.Equal(t, session.PhaseCompleted, sess.Phase())
}
