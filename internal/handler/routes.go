package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/msomdec/game-list/internal/service"
)

// RouterConfig carries the services and settings the router is built from.
type RouterConfig struct {
	Auth           *service.AuthService
	Lists          *service.ListService
	Items          *service.ItemService
	AuthLimiter    *service.TokenBucket
	AllowedOrigins []string
	// TrustProxyHeaders mounts middleware.RealIP. Without it the client IP is
	// always the connecting peer.
	TrustProxyHeaders bool
}

// NewRouter builds the HTTP API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Get("/", HandleRoot)
	r.Get("/health", HandleHealth)

	authHandler := NewAuthHandler(cfg.Auth)
	requireAuth := RequireAuth(cfg.Auth)

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.AuthLimiter != nil {
				r.Use(RateLimit(cfg.AuthLimiter))
			}
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
		})
		r.With(requireAuth).Get("/profile", authHandler.HandleProfile)
	})

	listHandler := NewListHandler(cfg.Lists)
	r.Route("/lists", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", listHandler.HandleCreate)
		r.Get("/", listHandler.HandleList)
		r.Get("/{id}", listHandler.HandleGet)
		r.Patch("/{id}", listHandler.HandleUpdate)
		r.Delete("/{id}", listHandler.HandleDelete)
	})

	itemHandler := NewItemHandler(cfg.Items)
	r.Route("/items", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", itemHandler.HandleCreate)
		r.Get("/", itemHandler.HandleList)
		r.Get("/{id}", itemHandler.HandleGet)
		r.Patch("/{id}", itemHandler.HandleUpdate)
		r.Delete("/{id}", itemHandler.HandleDelete)
	})

	return r
}
