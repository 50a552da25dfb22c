// internal/app/features/sessions/handler.go

// Package sessions exposes the session lifecycle endpoints: the delegate
// creates and deactivates sessions, godchildren browse the active ones, and
// sponsors self-register into a pool.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	sessionstore "github.com/kevyamon/lokolink/internal/app/store/sessions"
	"github.com/kevyamon/lokolink/internal/app/system/apierr"
	"github.com/kevyamon/lokolink/internal/app/system/htmlsanitize"
	"github.com/kevyamon/lokolink/internal/app/system/normalize"
	"github.com/kevyamon/lokolink/internal/domain/models"
)

// Store is the slice of the sessions store this feature needs.
type Store interface {
	Create(ctx context.Context, sess models.Session) (models.Session, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Session, error)
	ListActive(ctx context.Context) ([]models.Session, error)
	AddSponsor(ctx context.Context, sessionID primitive.ObjectID, sp models.Sponsor) (models.Sponsor, error)
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

// Notifier receives the updated session snapshot after a pool change.
type Notifier interface {
	SessionChanged(sess models.Session)
}

// Handler owns the session endpoints.
type Handler struct {
	Store  Store
	Notify Notifier
	Log    *zap.Logger
}

// NewHandler constructs a sessions Handler.
func NewHandler(store Store, notify Notifier, logger *zap.Logger) *Handler {
	return &Handler{Store: store, Notify: notify, Log: logger}
}

// ListActive handles GET /api/sessions/active. Only the name and ID go out;
// the access code and the pool stay private.
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	list, err := h.Store.ListActive(r.Context())
	if err != nil {
		h.Log.Error("list active sessions failed", zap.Error(err))
		apierr.Error(w, http.StatusInternalServerError, "Erreur serveur.")
		return
	}
	out := make([]sessionSummary, 0, len(list))
	for _, s := range list {
		out = append(out, sessionSummary{ID: s.ID.Hex(), SessionName: s.SessionName})
	}
	apierr.JSON(w, http.StatusOK, out)
}

// Details handles GET /api/sessions/{id}. An inactive session is
// indistinguishable from a missing one here.
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.activeSession(w, r)
	if !ok {
		return
	}
	apierr.JSON(w, http.StatusOK, sessionSummary{ID: sess.ID.Hex(), SessionName: sess.SessionName})
}

// Join handles POST /api/sessions/{id}/join: sponsor self-registration.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Error(w, http.StatusBadRequest, "Corps de requête invalide.")
		return
	}
	name := htmlsanitize.Strip(normalize.Name(req.Name))
	phone := strings.TrimSpace(req.Phone)
	if name == "" || phone == "" {
		apierr.Error(w, http.StatusBadRequest, "Nom et téléphone sont requis.")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Error(w, http.StatusNotFound, "Session non trouvée.")
		return
	}

	sess, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	if strings.TrimSpace(req.SessionCode) != strings.TrimSpace(sess.AccessCode) {
		apierr.Error(w, http.StatusUnauthorized, "Code de session incorrect.")
		return
	}
	if !sess.IsActive {
		apierr.Error(w, http.StatusForbidden, "Cette session n'accepte plus d'inscriptions.")
		return
	}

	sp, err := h.Store.AddSponsor(r.Context(), id, models.Sponsor{Name: name, Phone: phone})
	if err != nil {
		if errors.Is(err, sessionstore.ErrDuplicateSponsorPhone) {
			apierr.Error(w, http.StatusConflict, "Ce numéro est déjà inscrit comme parrain dans cette session.")
			return
		}
		h.Log.Error("sponsor join failed", zap.Error(err), zap.String("session_id", id.Hex()))
		apierr.Error(w, http.StatusInternalServerError, "Erreur serveur.")
		return
	}

	h.publishSnapshot(r.Context(), id)
	apierr.JSON(w, http.StatusCreated, map[string]any{
		"message": "Inscription parrain réussie !",
		"sponsor": sp,
	})
}

// Create handles POST /api/sessions/create (delegate only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Error(w, http.StatusBadRequest, "Corps de requête invalide.")
		return
	}
	req.SessionName = htmlsanitize.Strip(normalize.Name(req.SessionName))
	req.SessionCode = strings.TrimSpace(req.SessionCode)
	if req.SessionName == "" || req.SponsorsList == "" {
		apierr.Error(w, http.StatusBadRequest, "Nom de session et liste des parrains requis.")
		return
	}
	if req.SessionCode == "" {
		apierr.Error(w, http.StatusBadRequest, "Le code de session est requis.")
		return
	}
	if req.ExpectedGodchildren < 0 {
		apierr.Error(w, http.StatusBadRequest, "Le nombre de filleuls attendu doit être positif.")
		return
	}

	pool := parseSponsorsList(req.SponsorsList)
	if len(pool) == 0 {
		apierr.Error(w, http.StatusBadRequest,
			"La liste fournie ne contient aucun parrain valide. Format attendu : Nom, Téléphone")
		return
	}

	sess, err := h.Store.Create(r.Context(), models.Session{
		SessionName:         req.SessionName,
		AccessCode:          req.SessionCode,
		ExpectedGodchildren: req.ExpectedGodchildren,
		Sponsors:            pool,
	})
	if err != nil {
		if errors.Is(err, sessionstore.ErrDuplicateSessionName) {
			apierr.Error(w, http.StatusConflict, "Une session avec ce nom existe déjà.")
			return
		}
		h.Log.Error("session create failed", zap.Error(err))
		apierr.Error(w, http.StatusInternalServerError,
			"Erreur serveur lors de la création de la session. Vérifiez vos données.")
		return
	}

	apierr.JSON(w, http.StatusCreated, map[string]any{
		"message": "Session créée avec succès!",
		"session": sess,
	})
}

// Deactivate handles DELETE /api/sessions/{id}: a soft delete. The session
// and its pairing history stay in the store; only registration closes.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Error(w, http.StatusNotFound, "Session non trouvée.")
		return
	}
	sess, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	if err := h.Store.SetActive(r.Context(), id, false); err != nil {
		h.Log.Error("session deactivate failed", zap.Error(err), zap.String("session_id", id.Hex()))
		apierr.Error(w, http.StatusInternalServerError, "Erreur serveur lors de la suppression.")
		return
	}

	h.publishSnapshot(r.Context(), id)
	apierr.JSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("La session %q a été désactivée avec succès.", sess.SessionName),
	})
}

// activeSession loads the session at {id}, writing a 404 when it is missing,
// malformed, or inactive.
func (h *Handler) activeSession(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Error(w, http.StatusNotFound, "Session non trouvée ou inactive.")
		return models.Session{}, false
	}
	sess, err := h.Store.GetByID(r.Context(), id)
	if err != nil || !sess.IsActive {
		if err != nil && !errors.Is(err, sessionstore.ErrNotFound) {
			h.Log.Error("session lookup failed", zap.Error(err), zap.String("session_id", id.Hex()))
		}
		apierr.Error(w, http.StatusNotFound, "Session non trouvée ou inactive.")
		return models.Session{}, false
	}
	return sess, true
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, sessionstore.ErrNotFound) {
		apierr.Error(w, http.StatusNotFound, "Session non trouvée.")
		return
	}
	h.Log.Error("session lookup failed", zap.Error(err))
	apierr.Error(w, http.StatusInternalServerError, "Erreur serveur.")
}

// publishSnapshot re-reads the session so subscribers get the post-change
// state. A failed re-read only costs the notification.
func (h *Handler) publishSnapshot(ctx context.Context, id primitive.ObjectID) {
	sess, err := h.Store.GetByID(ctx, id)
	if err != nil {
		h.Log.Warn("session snapshot for notification failed", zap.Error(err), zap.String("session_id", id.Hex()))
		return
	}
	h.Notify.SessionChanged(sess)
}

// parseSponsorsList turns "Name, Phone" lines into a sponsor pool. Blank
// lines and lines without a comma are skipped; a phone may itself contain
// commas, everything after the first one belongs to it.
func parseSponsorsList(list string) []models.Sponsor {
	var pool []models.Sponsor
	for _, line := range strings.Split(list, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, phone, ok := strings.Cut(line, ",")
		if !ok {
			continue
		}
		name = htmlsanitize.Strip(normalize.Name(name))
		phone = strings.TrimSpace(phone)
		if name == "" || phone == "" {
			continue
		}
		pool = append(pool, models.Sponsor{Name: name, Phone: phone})
	}
	return pool
}
