package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/studiofoundry/storefront-service/internal/models"
)

type CouponWriter interface {
	Create(ctx context.Context, c *models.Coupon) error
}

type CreateCouponRequest struct {
	Code          string  `json:"code"`
	Active        *bool   `json:"active,omitempty"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
	MaxUses       *int    `json:"maxUses,omitempty"`
	ValidUntil    string  `json:"validUntil,omitempty"` // RFC3339
}

// CouponAdminHandler seeds coupon codes. The reference storefront manages
// these rows directly in the hosted backend; here it is a thin admin endpoint.
type CouponAdminHandler struct {
	coupons CouponWriter
	logger  *log.Logger
}

func NewCouponAdminHandler(coupons CouponWriter, logger *log.Logger) *CouponAdminHandler {
	return &CouponAdminHandler{coupons: coupons, logger: logger}
}

// CreateCoupon handles POST /admin/coupons
func (h *CouponAdminHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	if strings.TrimSpace(req.Code) == "" || req.DiscountValue <= 0 {
		writeError(w, http.StatusBadRequest, "code and a positive discountValue are required")
		return
	}

	discountType := models.DiscountType(req.DiscountType)
	if discountType != models.DiscountPercentage && discountType != models.DiscountFixed {
		writeError(w, http.StatusBadRequest, "discountType must be percentage or fixed")
		return
	}

	c := &models.Coupon{
		Code:          req.Code,
		Active:        true,
		DiscountType:  discountType,
		DiscountValue: req.DiscountValue,
		MaxUses:       req.MaxUses,
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if strings.TrimSpace(req.ValidUntil) != "" {
		t, err := time.Parse(time.RFC3339, req.ValidUntil)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid validUntil; use RFC3339")
			return
		}
		c.ValidUntil = &t
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.coupons.Create(ctx, c); err != nil {
		h.logger.Printf("create coupon: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create coupon")
		return
	}

	writeJSON(w, http.StatusCreated, c)
}
