package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/lostiburones/cobranza-service/internal/interface/http/handler"
	"github.com/lostiburones/cobranza-service/internal/interface/http/middleware"
)

func NewRouter(handlers *handler.Handlers, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	// Routes
	r.Get("/health", handlers.Payment.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sales", handlers.Sale.CreateSale)

		r.Post("/payments", handlers.Payment.ApplyPayment)
		r.Get("/payments", handlers.Payment.GetFinancingPayments)
		r.Get("/financings/{financing_id}", handlers.Payment.GetStatement)

		r.Get("/collections/overdue", handlers.Collection.OverdueReport)

		r.Post("/clients", handlers.Registry.CreateClient)
		r.Get("/clients", handlers.Registry.ListClients)
		r.Get("/clients/{client_id}", handlers.Registry.GetClient)

		r.Post("/products", handlers.Registry.CreateProduct)
		r.Get("/products", handlers.Registry.ListProducts)
		r.Post("/products/{product_id}/stock-adjustments", handlers.Registry.AdjustStock)
	})

	return r
}
