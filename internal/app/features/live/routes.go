// internal/app/features/live/routes.go
package live

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the event stream, mounted under /api/live.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Stream)
	return r
}
