// internal/app/features/pairings/handler.go

// Package pairings exposes the godchild-facing registration endpoint. The
// handler validates the payload once at the boundary and hands the engine an
// already-typed request; every engine outcome maps to a specific status and
// a human-readable reason.
package pairings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kevyamon/lokolink/internal/app/matching"
	"github.com/kevyamon/lokolink/internal/app/store/sessions"
	"github.com/kevyamon/lokolink/internal/app/system/apierr"
	"github.com/kevyamon/lokolink/internal/app/system/htmlsanitize"
	"github.com/kevyamon/lokolink/internal/domain/models"
)

// Assigner is the slice of the matching engine the handler needs.
type Assigner interface {
	Assign(ctx context.Context, req matching.Request) (matching.Result, error)
}

// Handler owns the pairing endpoints.
type Handler struct {
	Engine Assigner
	Log    *zap.Logger
}

// NewHandler constructs a pairings Handler.
func NewHandler(engine Assigner, logger *zap.Logger) *Handler {
	return &Handler{Engine: engine, Log: logger}
}

// Find handles POST /api/pairings/find.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	var req findRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Error(w, http.StatusBadRequest, "Corps de requête invalide.")
		return
	}

	req.GodchildName = htmlsanitize.Strip(strings.TrimSpace(req.GodchildName))
	if req.GodchildName == "" || req.GodchildGender == "" || req.SessionID == "" {
		apierr.Error(w, http.StatusBadRequest, "Informations incomplètes (Nom, Genre, Session).")
		return
	}
	if req.GodchildGender != models.GenderHomme && req.GodchildGender != models.GenderFemme {
		apierr.Error(w, http.StatusBadRequest, "Genre invalide (Homme ou Femme).")
		return
	}
	if strings.TrimSpace(req.SessionCode) == "" {
		apierr.Error(w, http.StatusBadRequest, "Le code de session est requis.")
		return
	}

	sessionID, err := primitive.ObjectIDFromHex(req.SessionID)
	if err != nil {
		apierr.Error(w, http.StatusNotFound, "Cette session est introuvable ou terminée.")
		return
	}

	res, err := h.Engine.Assign(r.Context(), matching.Request{
		GodchildName:   req.GodchildName,
		GodchildGender: req.GodchildGender,
		SessionID:      sessionID,
		SessionCode:    req.SessionCode,
	})
	if err != nil {
		h.writeAssignError(w, err)
		return
	}

	resp := findResponse{
		Message:      "Parrain trouvé !",
		SponsorName:  res.SponsorName,
		SponsorPhone: res.SponsorPhone,
		Duo:          res.Duo,
	}
	status := http.StatusCreated
	if res.Replayed {
		resp.Message = "Vous avez déjà un parrain pour cette session."
		status = http.StatusOK
	}
	apierr.JSON(w, status, resp)
}

// writeAssignError maps engine errors to the wire. Wrong code and closed
// session are deliberately distinct so the frontend can prompt for a
// corrected code instead of implying the session never existed.
func (h *Handler) writeAssignError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matching.ErrEmptyGodchildName):
		apierr.Error(w, http.StatusBadRequest, "Informations incomplètes (Nom, Genre, Session).")
	case errors.Is(err, sessions.ErrNotFound):
		apierr.Error(w, http.StatusNotFound, "Cette session est introuvable ou terminée.")
	case errors.Is(err, matching.ErrBadAccessCode):
		apierr.Error(w, http.StatusUnauthorized, "Code de session incorrect.")
	case errors.Is(err, matching.ErrSessionClosed):
		apierr.Error(w, http.StatusForbidden, "Cette session n'accepte plus d'inscriptions.")
	case errors.Is(err, matching.ErrNoSponsors):
		apierr.Error(w, http.StatusConflict, "Aucun parrain disponible dans cette session.")
	default:
		h.Log.Error("pairing assignment failed", zap.Error(err))
		apierr.Error(w, http.StatusInternalServerError, "Erreur serveur lors du matching.")
	}
}
