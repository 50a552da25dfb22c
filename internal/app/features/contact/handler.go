// internal/app/features/contact/handler.go

// Package contact serves the organizer's contact links to godchildren.
package contact

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kevyamon/lokolink/internal/app/system/apierr"
)

// Links are the organizer contact details, straight from configuration.
type Links struct {
	WhatsApp    string
	Facebook    string
	AdminNumber string
}

// Handler owns the contact endpoint.
type Handler struct {
	Links Links
	Log   *zap.Logger
}

// NewHandler constructs a contact Handler.
func NewHandler(links Links, logger *zap.Logger) *Handler {
	return &Handler{Links: links, Log: logger}
}

// Serve handles GET /api/contact. Every link must be configured; a partial
// configuration means the operator forgot something, not that godchildren
// should see half a contact page.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if h.Links.WhatsApp == "" || h.Links.Facebook == "" || h.Links.AdminNumber == "" {
		h.Log.Warn("contact links not fully configured")
		apierr.Error(w, http.StatusInternalServerError, "Liens de contact non configurés par l'administrateur.")
		return
	}
	apierr.JSON(w, http.StatusOK, map[string]string{
		"whatsappLink": h.Links.WhatsApp,
		"facebookLink": h.Links.Facebook,
		"adminNumber":  h.Links.AdminNumber,
	})
}
