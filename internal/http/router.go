package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/soulfoods/morsel/internal/http/report"
	"github.com/soulfoods/morsel/internal/http/sales"
	"github.com/soulfoods/morsel/internal/metrics"
)

func New(
	salesV1 *sales.Handler,
	reportV1 *report.Handler,
	reg *metrics.Registry,
	limiter *rate.Limiter,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	router.Use(instrument(reg))
	router.Use(rateLimit(limiter))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Method(http.MethodGet, "/metrics", reg.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		salesV1.Routes(r)

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			reportV1.Routes(r)
		})
	})

	return router
}
