// internal/app/system/auth/auth.go

// Package auth issues and verifies the bearer tokens that protect the
// delegate and admin surfaces, and provides the chi middleware that loads
// the authenticated account into the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kevyamon/lokolink/internal/app/system/apierr"
	"github.com/kevyamon/lokolink/internal/app/system/timeouts"
	"github.com/kevyamon/lokolink/internal/domain/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

// Claims are the JWT claims carried by every LokoLink token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a token manager. secret must be strong in production;
// ttl is how long issued tokens stay valid.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Generate issues a signed token for the account.
func (m *Manager) Generate(u models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: u.ID.Hex(),
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and returns its claims.
func (m *Manager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
 | Request context                                                            |
 *─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the account loaded by RequireAuth.
func CurrentUser(r *http.Request) (models.User, bool) {
	u, ok := r.Context().Value(currentUserKey).(models.User)
	return u, ok
}

// WithTestUser injects an account into the request context, bypassing token
// verification. Test helper only.
func WithTestUser(r *http.Request, u models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

/*─────────────────────────────────────────────────────────────────────────────*
 | Middleware                                                                 |
 *─────────────────────────────────────────────────────────────────────────────*/

// UserFetcher loads the fresh account record behind a token, so disabled or
// expired accounts lose access immediately rather than at token expiry.
type UserFetcher interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// Verifier is the middleware half of the auth system.
type Verifier struct {
	Tokens *Manager
	Users  UserFetcher
	Log    *zap.Logger
}

// NewVerifier builds the middleware with its token manager and user source.
func NewVerifier(tokens *Manager, users UserFetcher, logger *zap.Logger) *Verifier {
	return &Verifier{Tokens: tokens, Users: users, Log: logger}
}

// RequireAuth rejects requests without a valid Bearer token or with a token
// whose account is gone, disabled, or past its expiry date. On success the
// fresh account is placed in the request context.
func (v *Verifier) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			apierr.Error(w, http.StatusUnauthorized, "Non autorisé, aucun token fourni.")
			return
		}

		claims, err := v.Tokens.Validate(raw)
		if err != nil {
			apierr.Error(w, http.StatusUnauthorized, "Non autorisé, token invalide.")
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			apierr.Error(w, http.StatusUnauthorized, "Non autorisé, token invalide.")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		u, err := v.Users.GetByID(ctx, id)
		if err != nil || !u.IsActive || u.Expired(time.Now()) {
			apierr.Error(w, http.StatusUnauthorized, "Accès non autorisé, compte invalide ou expiré.")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), currentUserKey, u)))
	})
}

// RequireRole allows only accounts whose role is in the list. Must run after
// RequireAuth.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				apierr.Error(w, http.StatusUnauthorized, "Non autorisé.")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				apierr.Error(w, http.StatusForbidden, "Accès non autorisé (Admin requis).")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" || !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
