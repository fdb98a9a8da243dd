// Package httpapi exposes the storefront state layer as a JSON API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ljcl79/shophub/internal/cart"
	"github.com/ljcl79/shophub/internal/catalog"
	"github.com/ljcl79/shophub/internal/session"
)

// NewRouter wires the state-layer handlers behind chi.
func NewRouter(store *catalog.Store, ledger *cart.Ledger, gate *session.Gate, log *zap.Logger, requestTimeout time.Duration) chi.Router {
	catalogHandler := NewCatalogHandler(store, log)
	cartHandler := NewCartHandler(ledger, store, log)
	authHandler := NewAuthHandler(gate, log)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, log, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalogHandler.List)
		r.Get("/products/{id}", catalogHandler.Get)
		r.Get("/categories", catalogHandler.Categories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.Clear)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})
	})

	return r
}
