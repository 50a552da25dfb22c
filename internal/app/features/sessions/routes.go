// internal/app/features/sessions/routes.go
package sessions

import (
	"github.com/go-chi/chi/v5"

	"github.com/kevyamon/lokolink/internal/app/system/auth"
)

// Routes returns a subrouter for the session endpoints, mounted under
// /api/sessions. Creation and deactivation require a logged-in account; the
// rest is public.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()

	r.Get("/active", h.ListActive)
	r.Get("/{id}", h.Details)
	r.Post("/{id}/join", h.Join)

	r.Group(func(pr chi.Router) {
		pr.Use(v.RequireAuth)
		pr.Post("/create", h.Create)
		pr.Delete("/{id}", h.Deactivate)
	})

	return r
}
