// internal/app/features/pairings/routes.go
package pairings

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the pairing endpoints, mounted under
// /api/pairings.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/find", h.Find)
	return r
}
