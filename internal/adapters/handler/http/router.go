package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewHandler serves the results API only when auth is set.
func NewHandler(interactionHandler *InteractionHandler, resultHandler *ResultHandler, auth *TokenAuth) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Post("/interactions", interactionHandler.HandleInteraction)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		if auth == nil {
			return
		}
		r.Route("/results", func(r chi.Router) {
			r.Use(auth.Middleware)
			r.Get("/", resultHandler.ListResults)
			r.Get("/summary", resultHandler.Summary)
			r.Get("/{id}", resultHandler.GetResult)
		})
	})

	return r
}
