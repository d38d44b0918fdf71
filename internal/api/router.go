package api

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/studiofoundry/storefront-service/internal/api/handlers"
	"github.com/studiofoundry/storefront-service/internal/api/middleware"
	"github.com/studiofoundry/storefront-service/internal/notify"
	"github.com/studiofoundry/storefront-service/internal/repository"
	"github.com/studiofoundry/storefront-service/internal/service"
	"github.com/studiofoundry/storefront-service/internal/session"
)

// NewRouter wires repositories, services and handlers into the HTTP surface.
func NewRouter(db *sql.DB, sessions *session.Registry, notifier notify.Notifier, logger *log.Logger) http.Handler {
	couponRepo := repository.NewCouponRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	productRepo := repository.NewProductRepo(db)

	couponSvc := service.NewCouponService(couponRepo)
	checkoutSvc := service.NewCheckoutService(orderRepo, couponRepo, notifier, service.NewOrderNumberGenerator(), logger)

	cartHandler := handlers.NewCartHandler(sessions, couponSvc, checkoutSvc, logger)
	catalogHandler := handlers.NewCatalogHandler(productRepo, orderRepo, logger)
	adminHandler := handlers.NewCouponAdminHandler(couponRepo, logger)

	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Post("/session", cartHandler.CreateSession)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
			r.Post("/coupon", cartHandler.ApplyCoupon)
			r.Delete("/coupon", cartHandler.RemoveCoupon)
		})

		r.With(middleware.RequireUser).Post("/checkout", cartHandler.Checkout)

		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/orders/{orderNumber}", catalogHandler.GetOrder)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/coupons", adminHandler.CreateCoupon)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
