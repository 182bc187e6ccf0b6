package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewServer creates an HTTP server with all routes configured.
func NewServer(port string, h *Handler) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/market-data", h.GetMarketData)
		r.Post("/parse-coa", h.ParseCOA)
		r.Post("/calculate", h.Calculate)
		r.Post("/validate-assays", h.ValidateAssays)
		r.Post("/value-view", h.ValueView)
		r.Post("/sensitivity", h.Sensitivity)
		r.Post("/compare-lots", h.CompareLots)
		r.Post("/detect-chemistry", h.DetectChemistry)
		r.Get("/chemistries", h.ListChemistries)
		r.Post("/transport-advisory", h.TransportAdvisory)
		r.Get("/transport-routes", h.ListTransportRoutes)
		r.Post("/bid-report", h.BidReport)
		r.Get("/quotes", h.ListQuotes)
	})

	return &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
