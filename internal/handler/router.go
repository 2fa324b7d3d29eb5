package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dskcredit/internal/health"
	"dskcredit/internal/mw"
	"dskcredit/internal/service"
)

type Deps struct {
	Policy     *service.AvailabilityPolicy
	Calculator *service.Calculator
	Checkout   *service.CheckoutService
	Orders     *service.OrderStore
	Auth       *service.AuthService
	Health     *health.HealthChecker
	MerchantID string
	JWTSecret  string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", d.Health.Handler())

	// Bank callback
	r.Get("/dskapi/updateorder", UpdateOrderHandler(d.Orders, d.MerchantID))
	r.Post("/dskapi/updateorder", UpdateOrderHandler(d.Orders, d.MerchantID))

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		// Storefront
		r.Get("/credit/availability", AvailabilityHandler(d.Policy))
		r.Get("/credit/quote", QuoteHandler(d.Calculator))
		r.Get("/credit/advertisement", AdvertisementHandler(d.Calculator))
		r.Post("/credit/applications", SubmitApplicationHandler(d.Checkout))

		r.Post("/admin/login", LoginHandler(d.Auth))

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware(d.JWTSecret))

			r.Get("/admin/orders", ListOrdersHandler(d.Orders))
			r.Get("/admin/orders/{orderID}", GetOrderHandler(d.Orders))
			r.Delete("/admin/orders/{orderID}", DeleteOrderHandler(d.Orders))
			r.Get("/admin/statuses", StatusLabelsHandler())
		})
	})

	return r
}
