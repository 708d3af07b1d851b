package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router. Routes are registered both at the
// root and under /api so browser clients built against either prefix
// keep working.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	allowedOrigins := []string{"http://localhost:5173", "http://localhost:8080"}
	if h.cfg.Site.BaseURL != "" {
		allowedOrigins = append(allowedOrigins, h.cfg.Site.BaseURL)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	h.register(r)
	r.Route("/api", func(r chi.Router) {
		h.register(r)
	})

	return r
}

func (h *Handlers) register(r chi.Router) {
	// Public routes
	r.Get("/posts", h.GetPosts)
	r.Get("/rss", h.GetRSS)
	r.Post("/subscribe", h.Subscribe)
	r.Get("/subscribers", h.GetSubscribers)
	r.Post("/contact", h.Contact)
	r.Get("/config", h.GetConfig)

	// Privileged routes behind the API-key gate
	r.Group(func(r chi.Router) {
		r.Use(h.gate.Require)
		r.Post("/posts", h.CreatePost)
		r.Delete("/posts/{id}", h.DeletePost)
		r.Delete("/subscribers/{email}", h.DeleteSubscriber)
		r.Post("/newsletter/send", h.SendNewsletter)
		r.Post("/verify-key", h.VerifyKey)
	})
}
