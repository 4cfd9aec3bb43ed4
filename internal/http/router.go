package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ruivfernandes/tally/internal/http/export"
	"github.com/ruivfernandes/tally/internal/http/settings"
	"github.com/ruivfernandes/tally/internal/http/stats"
	"github.com/ruivfernandes/tally/internal/http/transaction"
)

func New(
	transactionsV1 *transaction.Handler,
	statsV1 *stats.Handler,
	settingsV1 *settings.Handler,
	exportV1 *export.Handler,
	allowedOrigins []string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// The consumer is a browser single-page app served from its own origin.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			transactionsV1.Routes(r)
		})

		r.Route("/stats", func(r chi.Router) {
			statsV1.Routes(r)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			settingsV1.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			exportV1.Routes(r)
		})

		r.Get("/categories", transactionsV1.Categories)
	})

	return router
}
