// Package app wires the retail services to the HTTP router.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/glowcart/internal/config"
	"github.com/abgdnv/glowcart/internal/handler"
	"github.com/abgdnv/glowcart/internal/platform/web"
	"github.com/abgdnv/glowcart/internal/service"
	"github.com/abgdnv/glowcart/internal/store"
	"github.com/go-chi/chi/v5"
)

type Dependencies struct {
	Shop   *service.Shop
	Logger *slog.Logger
}

// SetupDependencies builds the shop over the state loaded from disk.
func SetupDependencies(snap *store.Snapshot, persister store.Persister, cfg *config.Config, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		Shop:   service.NewShop(snap, persister, cfg.Staff.Codes, logger),
		Logger: logger,
	}
}

// SetupHttpHandler initializes the routes of the retail API.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	api := handler.NewAPI(handler.Services{
		Catalog:  deps.Shop,
		Accounts: deps.Shop,
		Checkout: deps.Shop,
	}, deps.Shop, deps.Logger)

	mux := chi.NewRouter()
	mux.Use(web.RequestIDInjector)
	mux.Use(web.StructuredLogger(deps.Logger))
	mux.Use(web.Recoverer(deps.Logger))

	mux.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", api.FindAll)
			r.Get("/{code}", api.FindByCode)

			r.Group(func(r chi.Router) {
				r.Use(api.RequireSession, api.RequireStaff)
				r.Post("/", api.Create)
				r.Put("/{code}", api.Update)
				r.Put("/{code}/quantity", api.UpdateQuantity)
				r.Delete("/{code}", api.DeleteByCode)
			})
		})

		r.Get("/classifications", api.Classifications)
		r.Post("/users", api.Register)
		r.Post("/sessions", api.Login)
		r.Get("/skin-type", api.Questions)
		r.Post("/skin-type", api.IdentifySkinType)

		r.Group(func(r chi.Router) {
			r.Use(api.RequireSession)
			r.Delete("/sessions", api.Logout)
			r.Get("/cart", api.Cart)
			r.Post("/cart", api.AddToCart)
			r.Post("/checkout", api.Checkout)
			r.With(api.RequireStaff).Get("/orders", api.Orders)
		})
	})

	mux.Get("/healthz", api.HealthCheck)

	return mux
}

// SetupHttpServer creates and configures an HTTP server for the retail API.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:           mux,
		ReadTimeout:       cfg.HTTPServer.Timeout.Read,
		WriteTimeout:      cfg.HTTPServer.Timeout.Write,
		IdleTimeout:       cfg.HTTPServer.Timeout.Idle,
		ReadHeaderTimeout: cfg.HTTPServer.Timeout.ReadHeader,
		MaxHeaderBytes:    cfg.HTTPServer.MaxHeaderBytes,
	}
	return server
}
