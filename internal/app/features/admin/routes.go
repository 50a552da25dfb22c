// internal/app/features/admin/routes.go
package admin

import (
	"github.com/go-chi/chi/v5"

	"github.com/kevyamon/lokolink/internal/app/system/auth"
	"github.com/kevyamon/lokolink/internal/domain/models"
)

// Routes returns a subrouter for the admin endpoints, mounted under
// /api/admin. Everything here requires a superadmin or eternal account.
func Routes(h *Handler, v *auth.Verifier) chi.Router {
	r := chi.NewRouter()
	r.Use(v.RequireAuth)
	r.Use(auth.RequireRole(models.RoleSuperAdmin, models.RoleEternal))

	r.Get("/sessions", h.ListSessions)
	r.Get("/sessions/{id}", h.SessionDetails)
	r.Put("/sessions/{sessionId}/sponsors/{sponsorId}", h.UpdateSponsor)
	r.Patch("/sessions/{id}/active", h.SetSessionActive)
	r.Delete("/sessions/{id}", h.DeleteSession)
	r.Post("/codes", h.CreateCode)

	return r
}
