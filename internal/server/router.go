// Package server assembles the HTTP surface of the journal service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"journal-service/internal/auth"
	"journal-service/internal/content"
	"journal-service/internal/journal"
	"journal-service/internal/metrics"
	"journal-service/internal/oauth"
)

const serviceName = "journal-service"

type Deps struct {
	OAuth   *oauth.Handler
	Content *content.Handler
	Journal *journal.Handler

	JWTSecret []byte
	APIKey    string
}

// NewRouter mounts health and metrics at the root and everything else under
// /api/v1. OAuth browser redirects are public; the rest require a bearer
// token or the service API key.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"service": serviceName,
		})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Get("/auth-success.html", authResultPage(authResult{
		Title:   "Account connected",
		Message: "Your account was linked successfully.",
		OK:      true,
	}))
	r.Get("/auth-error.html", authResultPage(authResult{
		Title:   "Connection failed",
		Message: "We could not link your account. Please try again.",
	}))

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(30 * time.Second))

		d.OAuth.Routes(api)

		api.Group(func(protected chi.Router) {
			protected.Use(auth.Middleware(d.JWTSecret, d.APIKey))
			d.Content.Routes(protected)
			d.Journal.Routes(protected)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
