package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/studiofoundry/storefront-service/internal/models"
	"github.com/studiofoundry/storefront-service/internal/notify"
	"github.com/studiofoundry/storefront-service/internal/session"
)

// OrderRepo is the backend surface the orchestrator writes through. InsertOrder
// fills in the generated order ID and creation time.
type OrderRepo interface {
	InsertOrder(ctx context.Context, o *models.Order) error
	InsertOrderItems(ctx context.Context, items []models.OrderItem) error
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
}

// Precondition failures. Checked before any backend write so an aborted
// checkout leaves no partial state behind.
var (
	ErrEmailRequired    = errors.New("email address required")
	ErrNotAuthenticated = errors.New("sign-in required")
	ErrEmptyCart        = errors.New("cart is empty")
)

type CheckoutRequest struct {
	UserID string
	Email  string
}

type CheckoutService struct {
	orders   OrderRepo
	coupons  CouponRepo
	notifier notify.Notifier
	gen      OrderNumberGenerator
	logger   *log.Logger
}

func NewCheckoutService(orders OrderRepo, coupons CouponRepo, notifier notify.Notifier, gen OrderNumberGenerator, logger *log.Logger) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		coupons:  coupons,
		notifier: notifier,
		gen:      gen,
		logger:   logger,
	}
}

// Checkout turns the session's cart into a persisted order.
//
// The persistence sequence is deliberately best-effort, matching the reference
// storefront: order, items and coupon usage are independent writes with no
// rollback, so a failure partway leaves the earlier writes in place. A failed
// order or item insert aborts with the cart intact so the user can retry; the
// coupon usage increment and the confirmation are fire-and-forget.
func (s *CheckoutService) Checkout(ctx context.Context, sess *session.Session, req CheckoutRequest) (*models.Order, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, ErrEmailRequired
	}
	if req.UserID == "" {
		return nil, ErrNotAuthenticated
	}
	items := sess.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	sess.SetPhase(session.PhaseSubmitting)

	coupon := sess.AppliedCoupon()
	subtotal := sess.TotalPrice()
	discount := DiscountAmount(subtotal, coupon)
	total := FinalTotal(subtotal, discount)

	o := &models.Order{
		UserID:         req.UserID,
		OrderNumber:    s.gen.OrderNumber(),
		Email:          req.Email,
		TotalAmount:    total,
		DiscountAmount: discount,
		Status:         models.OrderCompleted,
	}
	if coupon != nil {
		code := coupon.Code
		o.CouponCode = &code
	}

	if err := s.orders.InsertOrder(ctx, o); err != nil {
		sess.SetPhase(session.PhaseFailed)
		return nil, fmt.Errorf("insert order: %w", err)
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, models.OrderItem{
			OrderID:   o.ID,
			ProductID: it.ProductID,
			Quantity:  1,
			Price:     it.Price,
		})
	}
	if err := s.orders.InsertOrderItems(ctx, orderItems); err != nil {
		sess.SetPhase(session.PhaseFailed)
		return nil, fmt.Errorf("insert order items: %w", err)
	}
	o.Items = orderItems

	if coupon != nil {
		// Optimistic: the cap is not re-checked here, so concurrent checkouts
		// sharing a coupon can jointly exceed max uses. A failure is logged,
		// not surfaced; the order already exists.
		if err := s.coupons.IncrementUsage(ctx, coupon.ID, 1); err != nil {
			s.logger.Printf("order %s: coupon usage increment failed: %v", o.OrderNumber, err)
		}
	}

	conf := notify.OrderConfirmation{
		OrderNumber: o.OrderNumber,
		Email:       o.Email,
		Total:       o.TotalAmount,
		Items:       items,
	}
	if err := s.notifier.SendOrderConfirmation(ctx, conf); err != nil {
		s.logger.Printf("order %s: confirmation not sent: %v", o.OrderNumber, err)
	}

	sess.CompleteCheckout()
	return o, nil
}
