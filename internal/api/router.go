package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/neuronpad/internal/ai"
	"github.com/starford/neuronpad/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, gw ai.Gateway, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)
	th := NewTransformHandler(gw)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/counts", h.Counts)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Unlock flag.
	r.Get("/auth", h.GetAuth)
	r.Put("/auth", h.SetAuth)
	r.Delete("/auth", h.ClearAuth)

	// Text transforms.
	r.Post("/ai/summarize", th.Handle(ai.Summarize))
	r.Post("/ai/grammar", th.Handle(ai.GrammarFix))

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
