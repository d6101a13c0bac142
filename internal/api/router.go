package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"dynasource/internal/config"
	"dynasource/internal/middleware"
)

// NewRouter assembles the HTTP router with the full middleware chain.
func NewRouter(h *Handler, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger).Handler)
	r.Use(middleware.NewAuth(cfg.AuthSecret, cfg.APIKeys, logger).Handler)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/query", h.HandleQuery)
		r.Get("/health", h.HandleHealth)
	})

	return r
}
