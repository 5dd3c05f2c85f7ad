package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrJamesThe3rd/timebank/internal/http/account"
	"github.com/MrJamesThe3rd/timebank/internal/http/credit"
	"github.com/MrJamesThe3rd/timebank/internal/http/expenditure"
	"github.com/MrJamesThe3rd/timebank/internal/http/importcsv"
	"github.com/MrJamesThe3rd/timebank/internal/http/invoice"
	"github.com/MrJamesThe3rd/timebank/internal/metrics"
)

type Handlers struct {
	Credits      *credit.Handler
	Expenditures *expenditure.Handler
	Import       *importcsv.Handler
	Account      *account.Handler
	Invoices     *invoice.Handler
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(metrics.Middleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/licenses/{licenseID}", func(r chi.Router) {
			r.Route("/credits", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Credits.Routes(r)
			})

			r.Route("/expenditures", func(r chi.Router) {
				r.Route("/import", h.Import.Routes)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AllowContentType("application/json"))
					h.Expenditures.Routes(r)
				})
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Invoices.LicenseRoutes(r)
			})

			h.Account.Routes(r)
		})

		r.Route("/invoices", h.Invoices.Routes)
	})

	return router
}
