package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ruzaikr/screencloud-takehome/internal/service"
	"github.com/ruzaikr/screencloud-takehome/pkg/health"
	"github.com/ruzaikr/screencloud-takehome/pkg/middleware"
)

// NewRouter creates a chi router with all fulfillment engine routes registered.
func NewRouter(
	orderService *service.OrderService,
	productService *service.ProductService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("fulfillment"))
	r.Use(middleware.Tracing("fulfillment"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	orderHandler := NewOrderHandler(orderService, logger)
	reservationHandler := NewReservationHandler(orderService, logger)
	productHandler := NewProductHandler(productService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.CacheControl(60)).Get("/products", productHandler.ListProducts)
		r.Get("/orders/{id}", orderHandler.GetOrder)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/orders", orderHandler.PlaceOrder)
			r.Post("/reservations", reservationHandler.CheckFeasibility)
		})
	})

	return r
}
