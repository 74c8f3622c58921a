package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/acidvertigo/cart/internal/manager"
	"github.com/acidvertigo/cart/pkg/health"
	"github.com/acidvertigo/cart/pkg/middleware"
)

// NewRouter creates a chi router with all cart manager routes registered.
func NewRouter(
	m *manager.Manager,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("cart"))
	r.Use(middleware.Tracing("cart"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	h := NewHandler(m, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/context", h.GetContext)
		r.Put("/context", h.SetContext)

		r.Route("/instances", func(r chi.Router) {
			r.Get("/", h.ListInstances)
			r.Post("/", h.CreateInstance)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetInstance)
				r.Delete("/", h.DestroyInstance)

				r.Post("/save", h.SaveInstance)
				r.Post("/restore", h.RestoreInstance)
				r.Post("/clear", h.ClearInstanceStorage)

				r.Post("/items", h.AddItem)
				r.Put("/items/{productId}/{variantId}", h.UpdateItemQuantity)
				r.Delete("/items/{productId}/{variantId}", h.RemoveItem)
			})
		})
	})

	return r
}
