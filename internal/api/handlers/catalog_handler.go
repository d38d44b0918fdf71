package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studiofoundry/storefront-service/internal/models"
	"github.com/studiofoundry/storefront-service/internal/service"
)

type ProductRepo interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

// CatalogHandler serves the read-only surfaces: the shop catalog and order
// lookup by order number.
type CatalogHandler struct {
	products ProductRepo
	orders   service.OrderRepo
	logger   *log.Logger
}

func NewCatalogHandler(products ProductRepo, orders service.OrderRepo, logger *log.Logger) *CatalogHandler {
	return &CatalogHandler{
		products: products,
		orders:   orders,
		logger:   logger,
	}
}

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := h.products.ListProducts(ctx)
	if err != nil {
		h.logger.Printf("list products: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

// GetOrder handles GET /api/orders/{orderNumber}
func (h *CatalogHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	if orderNumber == "" {
		writeError(w, http.StatusBadRequest, "missing orderNumber")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		h.logger.Printf("get order %s: %v", orderNumber, err)
		writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if o == nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	writeJSON(w, http.StatusOK, o)
}
