// Package router sets up the HTTP routes and middleware chains for the
// Stackify API. Routes are grouped into auth, ai, sites and admin, each with
// the access checks it needs.
package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"stackify/internal/handlers"
	"stackify/internal/middleware"
)

// Pinger reports whether a backing service is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds everything the router wires together.
type Deps struct {
	Tokens middleware.TokenParser
	// GenerateLimit throttles POST /api/ai/generate per client IP. Optional.
	GenerateLimit *middleware.RateLimiter
	// DB is checked by /health. Optional.
	DB Pinger

	AI    *handlers.AI
	Sites *handlers.Sites
	Admin *handlers.Admin
	Auth  *handlers.Auth
}

// New creates the configured Chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	// Authenticate runs before Logger so access logs carry the user id.
	r.Use(middleware.Authenticate(d.Tokens))
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler(d.DB))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)
			r.With(middleware.RequireAuth).Get("/me", d.Auth.Me)
		})

		r.Route("/ai", func(r chi.Router) {
			// Generated pages embed image URLs pointing here, so it is public.
			r.Get("/image", d.AI.ImageProxy)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				if d.GenerateLimit != nil {
					r.Use(d.GenerateLimit.Middleware)
				}
				r.Post("/generate", d.AI.Generate)
			})
		})

		r.Route("/sites", func(r chi.Router) {
			r.Get("/public", d.Sites.Showcase)
			r.Get("/{id}", d.Sites.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/", d.Sites.List)
				r.Post("/", d.Sites.Create)
				r.Delete("/{id}", d.Sites.Delete)
				r.Put("/{id}/submit", d.Sites.Submit)
				r.Post("/{id}/clone", d.Sites.Clone)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)
			r.Get("/pending", d.Admin.Pending)
			r.Get("/showcase", d.Admin.Approved)
			r.Put("/action/{id}", d.Admin.Review)
			r.Delete("/site/{id}", d.Admin.Delete)
		})
	})

	return r
}

// healthHandler reports liveness, and database reachability when db is set.
func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"degraded","database":"unreachable"}`))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
