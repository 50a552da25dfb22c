// internal/app/features/login/handler.go

// Package login exposes the account endpoints: password logins and sign-ups
// through registration codes.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kevyamon/lokolink/internal/app/store/regcodes"
	userstore "github.com/kevyamon/lokolink/internal/app/store/users"
	"github.com/kevyamon/lokolink/internal/app/system/accounts"
	"github.com/kevyamon/lokolink/internal/app/system/apierr"
	"github.com/kevyamon/lokolink/internal/domain/models"
)

// Accounts is the slice of the registrar this feature needs.
type Accounts interface {
	Register(ctx context.Context, code, email, password string) (models.User, string, error)
	Login(ctx context.Context, email, password string) (models.User, string, error)
}

// Handler owns the account endpoints.
type Handler struct {
	Accounts Accounts
	Log      *zap.Logger
}

// NewHandler constructs a login Handler.
func NewHandler(reg Accounts, logger *zap.Logger) *Handler {
	return &Handler{Accounts: reg, Log: logger}
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Error(w, http.StatusBadRequest, "Corps de requête invalide.")
		return
	}
	if req.Email == "" || req.Password == "" {
		apierr.Error(w, http.StatusBadRequest, "Veuillez fournir un email et un mot de passe.")
		return
	}

	u, token, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		apierr.JSON(w, http.StatusOK, authResponse{
			Message: "Authentification réussie.",
			Token:   token,
			ID:      u.ID.Hex(),
			Email:   u.Email,
			Role:    u.Role,
		})
	case errors.Is(err, accounts.ErrInvalidCredentials):
		apierr.Error(w, http.StatusUnauthorized, "Email ou mot de passe incorrect.")
	case errors.Is(err, accounts.ErrAccountDisabled):
		apierr.Error(w, http.StatusUnauthorized, "Accès non autorisé, compte invalide ou expiré.")
	default:
		h.Log.Error("login failed", zap.Error(err))
		apierr.Error(w, http.StatusInternalServerError, "Erreur serveur.")
	}
}

// Register handles POST /api/auth/register: a registration code buys one
// account with the role the code carries.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.Error(w, http.StatusBadRequest, "Corps de requête invalide.")
		return
	}
	if req.Code == "" {
		apierr.Error(w, http.StatusBadRequest, "Le code d'inscription est requis.")
		return
	}

	u, token, err := h.Accounts.Register(r.Context(), req.Code, req.Email, req.Password)
	switch {
	case err == nil:
		apierr.JSON(w, http.StatusCreated, authResponse{
			Message: "Compte créé avec succès.",
			Token:   token,
			ID:      u.ID.Hex(),
			Email:   u.Email,
			Role:    u.Role,
		})
	case errors.Is(err, accounts.ErrMissingEmail), errors.Is(err, accounts.ErrWeakPassword):
		apierr.Error(w, http.StatusBadRequest, "Email et mot de passe (6 caractères minimum) requis.")
	case errors.Is(err, regcodes.ErrNotFound):
		apierr.Error(w, http.StatusNotFound, "Code d'inscription invalide.")
	case errors.Is(err, regcodes.ErrAlreadyUsed):
		apierr.Error(w, http.StatusConflict, "Ce code d'inscription a déjà été utilisé.")
	case errors.Is(err, userstore.ErrDuplicateEmail):
		apierr.Error(w, http.StatusConflict, "Un compte avec cet email existe déjà.")
	default:
		h.Log.Error("registration failed", zap.Error(err))
		apierr.Error(w, http.StatusInternalServerError, "Erreur serveur.")
	}
}
