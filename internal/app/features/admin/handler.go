// internal/app/features/admin/handler.go

// Package admin exposes the superadmin surface: full session visibility
// including inactive ones, sponsor edits, hard deletion with history purge,
// and registration-code issuance.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	sessionstore "github.com/kevyamon/lokolink/internal/app/store/sessions"
	"github.com/kevyamon/lokolink/internal/app/system/apierr"
	"github.com/kevyamon/lokolink/internal/app/system/auth"
	"github.com/kevyamon/lokolink/internal/app/system/htmlsanitize"
	"github.com/kevyamon/lokolink/internal/app/system/normalize"
	"github.com/kevyamon/lokolink/internal/domain/models"
)

// SessionStore is the slice of the sessions store this feature needs.
type SessionStore interface {
	ListAll(ctx context.Context) ([]models.Session, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Session, error)
	UpdateSponsorInfo(ctx context.Context, sessionID, sponsorID primitive.ObjectID, name, phone string) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// PairingStore is the slice of the pairings store this feature needs.
type PairingStore interface {
	ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]models.Pairing, error)
	DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error)
}

// CodeStore issues registration codes.
type CodeStore interface {
	Create(ctx context.Context, rc models.RegistrationCode) (models.RegistrationCode, error)
}

// Notifier receives the updated session snapshot after an admin edit.
type Notifier interface {
	SessionChanged(sess models.Session)
}

// Handler owns the admin endpoints.
type Handler struct {
	Sessions SessionStore
	Pairings PairingStore
	Codes    CodeStore
	Notify   Notifier
	Log      *zap.Logger
}

// NewHandler constructs an admin Handler.
func NewHandler(sessions SessionStore, pairings PairingStore, codes CodeStore, notify Notifier, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sessions, Pairings: pairings, Codes: codes, Notify: notify, Log: logger}
}

// ListSessions handles GET /api/admin/sessions: everything, newest first.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	list, err := h.Sessions.ListAll(r.Context())
	if err != nil {
		h.Log.Error("admin session list failed", zap.Error(err))
		apierr.Error(w, http.StatusInternalServerError, "Erreur serveur.")
		return
	}
	apierr.JSON(w, http.StatusOK, list)
}

// SessionDetails handles GET /api/admin/sessions/{id}: the full document
// with its sponsor pool and pairing history.
func (h *Handler) SessionDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r, "id")
	if !ok {
		return
	}
	sess, err := h.Sessions.GetByID(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	history, err := h.Pairings.ListBySession(r.Context(), id)
	if err != nil {
		h.Log.Error("pairing history load failed", zap.Error(err), zap.String("session_id", id.Hex()))
		apierr.Error(w, http.StatusInternalServerError, "Erreur serveur.")
		return
	}
	apierr.JSON(w, http.StatusOK, map[string]any{
		"session":  sess,
		"pairings": history,
	})
}

// UpdateSponsor handles PUT /api/admin/sessions/{sessionId}/sponsors/{sponsorId}.
func (h *Handler) UpdateSponsor(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r, "sessionId")
	if !ok {
		return
	}
	sponsorID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "sponsorId"))
	if err != nil {
		apierr.Error(w, http.StatusNotFound, "Session ou Parrain non trouvé.")
		return
	}

	var req sponsorUpdateRequest
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

	if err := h.Sessions.UpdateSponsorInfo(r.Context(), sessionID, sponsorID, name, phone); err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) || errors.Is(err, sessionstore.ErrSponsorNotFound) {
			apierr.Error(w, http.StatusNotFound, "Session ou Parrain non trouvé.")
			return
		}
		h.Log.Error("sponsor update failed", zap.Error(err),
			zap.String("session_id", sessionID.Hex()), zap.String("sponsor_id", sponsorID.Hex()))
		apierr.Error(w, http.StatusInternalServerError, "Erreur serveur lors de la mise à jour.")
		return
	}

	sess := h.publishSnapshot(r.Context(), sessionID)
	apierr.JSON(w, http.StatusOK, map[string]any{
		"message": "Informations du parrain mises à jour.",
		"session": sess,
	})
}

// SetSessionActive handles PATCH /api/admin/sessions/{id}/active.
func (h *Handler) SetSessionActive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r, "id")
	if !ok {
		return
	}
	var req activeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Error(w, http.StatusBadRequest, "Corps de requête invalide.")
		return
	}
	if err := h.Sessions.SetActive(r.Context(), id, req.IsActive); err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			apierr.Error(w, http.StatusNotFound, "Session non trouvée.")
			return
		}
		h.Log.Error("session active toggle failed", zap.Error(err), zap.String("session_id", id.Hex()))
		apierr.Error(w, http.StatusInternalServerError, "Erreur serveur.")
		return
	}

	sess := h.publishSnapshot(r.Context(), id)
	apierr.JSON(w, http.StatusOK, map[string]any{
		"message": "Statut de la session mis à jour.",
		"session": sess,
	})
}

// DeleteSession handles DELETE /api/admin/sessions/{id}: permanent removal
// of the session and every pairing it produced.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := h.sessionID(w, r, "id")
	if !ok {
		return
	}
	deleted, err := h.Sessions.Delete(r.Context(), id)
	if err != nil {
		h.Log.Error("session delete failed", zap.Error(err), zap.String("session_id", id.Hex()))
		apierr.Error(w, http.StatusInternalServerError, "Erreur serveur.")
		return
	}
	if deleted == 0 {
		apierr.Error(w, http.StatusNotFound, "Session non trouvée.")
		return
	}

	purged, err := h.Pairings.DeleteBySession(r.Context(), id)
	if err != nil {
		// The session is gone; orphaned pairings are a cleanup concern, not
		// a failure of the delete the admin asked for.
		h.Log.Error("pairing purge failed after session delete",
			zap.Error(err), zap.String("session_id", id.Hex()))
	} else {
		h.Log.Info("session deleted",
			zap.String("session_id", id.Hex()), zap.Int64("pairings_purged", purged))
	}

	apierr.JSON(w, http.StatusOK, map[string]string{
		"message": "Session et historique des binômes supprimés.",
	})
}

// CreateCode handles POST /api/admin/codes: a single-use registration code
// for the given role.
func (h *Handler) CreateCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Error(w, http.StatusBadRequest, "Corps de requête invalide.")
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != models.RoleDelegue && role != models.RoleSuperAdmin {
		apierr.Error(w, http.StatusBadRequest, "Rôle invalide (delegue ou superadmin).")
		return
	}

	rc := models.RegistrationCode{
		Code: uuid.NewString(),
		Role: role,
	}
	if u, ok := auth.CurrentUser(r); ok {
		rc.CreatedBy = &u.ID
	}

	created, err := h.Codes.Create(r.Context(), rc)
	if err != nil {
		h.Log.Error("registration code create failed", zap.Error(err))
		apierr.Error(w, http.StatusInternalServerError, "Erreur serveur.")
		return
	}
	apierr.JSON(w, http.StatusCreated, created)
}

func (h *Handler) sessionID(w http.ResponseWriter, r *http.Request, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, param))
	if err != nil {
		apierr.Error(w, http.StatusNotFound, "Session non trouvée (ID mal formaté).")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, sessionstore.ErrNotFound) {
		apierr.Error(w, http.StatusNotFound, "Session non trouvée.")
		return
	}
	h.Log.Error("session lookup failed", zap.Error(err))
	apierr.Error(w, http.StatusInternalServerError, "Erreur serveur.")
}

// publishSnapshot re-reads and broadcasts the session; it also returns the
// snapshot so the edit response can carry the fresh document.
func (h *Handler) publishSnapshot(ctx context.Context, id primitive.ObjectID) *models.Session {
	sess, err := h.Sessions.GetByID(ctx, id)
	if err != nil {
		h.Log.Warn("session snapshot for notification failed", zap.Error(err), zap.String("session_id", id.Hex()))
		return nil
	}
	h.Notify.SessionChanged(sess)
	return &sess
}
