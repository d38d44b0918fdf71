package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studiofoundry/storefront-service/internal/api/middleware"
	"github.com/studiofoundry/storefront-service/internal/models"
	"github.com/studiofoundry/storefront-service/internal/service"
	"github.com/studiofoundry/storefront-service/internal/session"
)

// --- Request / Response DTOs ---

type AddItemRequest struct {
	ProductID   string  `json:"productId"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Icon        string  `json:"icon,omitempty"`
	InventoryID string  `json:"inventoryId,omitempty"`
}

type ApplyCouponRequest struct {
	Code string `json:"code"`
}

type CheckoutRequestBody struct {
	Email string `json:"email"`
}

type AppliedCouponView struct {
	Code          string              `json:"code"`
	DiscountType  models.DiscountType `json:"discountType"`
	DiscountValue float64             `json:"discountValue"`
}

type CartResponse struct {
	SessionID string             `json:"sessionId"`
	Items     []models.CartItem  `json:"items"`
	ItemCount int                `json:"itemCount"`
	Subtotal  float64            `json:"subtotal"`
	Coupon    *AppliedCouponView `json:"coupon,omitempty"`
	Discount  float64            `json:"discount"`
	Total     float64            `json:"total"`
	Phase     session.Phase      `json:"phase"`
}

// --- Handler struct & constructor ---

type CartHandler struct {
	sessions *session.Registry
	coupons  *service.CouponService
	checkout *service.CheckoutService
	logger   *log.Logger
}

func NewCartHandler(sessions *session.Registry, coupons *service.CouponService, checkout *service.CheckoutService, logger *log.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		coupons:  coupons,
		checkout: checkout,
		logger:   logger,
	}
}

// --- Helpers ---

func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.Header.Get(HeaderSessionID)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing "+HeaderSessionID+" header")
		return nil, false
	}
	sess, ok := h.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return nil, false
	}
	return sess, true
}

func cartView(sess *session.Session) CartResponse {
	subtotal := sess.TotalPrice()
	coupon := sess.AppliedCoupon()
	discount := service.DiscountAmount(subtotal, coupon)

	resp := CartResponse{
		SessionID: sess.ID,
		Items:     sess.Items(),
		ItemCount: sess.ItemCount(),
		Subtotal:  subtotal,
		Discount:  discount,
		Total:     service.FinalTotal(subtotal, discount),
		Phase:     sess.Phase(),
	}
	if coupon != nil {
		resp.Coupon = &AppliedCouponView{
			Code:          coupon.Code,
			DiscountType:  coupon.DiscountType,
			DiscountValue: coupon.DiscountValue,
		}
	}
	return resp
}

// --- Handlers ---

// CreateSession handles POST /api/session
func (h *CartHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"sessionId": sess.ID})
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cartView(sess))
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.ProductID == "" || req.Price < 0 {
		writeError(w, http.StatusBadRequest, "productId required and price must not be negative")
		return
	}

	sess.Add(models.CartItem{
		ProductID:   req.ProductID,
		Title:       req.Title,
		Price:       req.Price,
		Category:    req.Category,
		Icon:        req.Icon,
		InventoryID: req.InventoryID,
	})

	writeJSON(w, http.StatusOK, cartView(sess))
}

// RemoveItem handles DELETE /api/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing productId")
		return
	}

	sess.Remove(productID)
	writeJSON(w, http.StatusOK, cartView(sess))
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.Clear()
	writeJSON(w, http.StatusOK, cartView(sess))
}

// ApplyCoupon handles POST /api/cart/coupon
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ApplyCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	coupon, err := h.coupons.Validate(ctx, req.Code)
	if err != nil {
		if msg := service.CouponMessage(err); msg != "" {
			// Rejection is non-fatal: nothing is cleared, the user can try
			// another code or skip the coupon entirely.
			writeError(w, http.StatusUnprocessableEntity, msg)
			return
		}
		h.logger.Printf("coupon validation: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to validate coupon")
		return
	}

	sess.ApplyCoupon(coupon)
	writeJSON(w, http.StatusOK, cartView(sess))
}

// RemoveCoupon handles DELETE /api/cart/coupon
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	sess.RemoveCoupon()
	writeJSON(w, http.StatusOK, cartView(sess))
}

// Checkout handles POST /api/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req CheckoutRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	order, err := h.checkout.Checkout(ctx, sess, service.CheckoutRequest{
		UserID: middleware.GetUserID(r.Context()),
		Email:  req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired):
			writeError(w, http.StatusBadRequest, "Please enter your email address")
		case errors.Is(err, service.ErrNotAuthenticated):
			writeError(w, http.StatusUnauthorized, "Please sign in to complete your purchase")
		case errors.Is(err, service.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "Your cart is empty")
		default:
			h.logger.Printf("checkout: %v", err)
			writeError(w, http.StatusInternalServerError, "There was an error processing your order. Please try again.")
		}
		return
	}

	writeJSON(w, http.StatusCreated, order)
}
