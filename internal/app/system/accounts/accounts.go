// internal/app/system/accounts/accounts.go

// Package accounts handles delegate/admin sign-up via registration codes and
// password logins. Code redemption is serialized by the Registrar's own
// mutex, which is independent from the pairing lock: a slow assignment never
// delays a sign-up and vice versa.
package accounts

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kevyamon/lokolink/internal/app/store/regcodes"
	"github.com/kevyamon/lokolink/internal/app/system/auth"
	"github.com/kevyamon/lokolink/internal/app/system/normalize"
	"github.com/kevyamon/lokolink/internal/domain/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account disabled or expired")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrMissingEmail       = errors.New("email is required")
)

const minPasswordLen = 6

// UserStore is the slice of the users store the registrar needs.
type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

// CodeStore is the slice of the registration-codes store the registrar needs.
type CodeStore interface {
	GetByCode(ctx context.Context, code string) (models.RegistrationCode, error)
	Redeem(ctx context.Context, code string) (models.RegistrationCode, error)
}

// Registrar creates accounts from registration codes and authenticates
// logins.
type Registrar struct {
	users  UserStore
	codes  CodeStore
	tokens *auth.Manager
	log    *zap.Logger

	// accountTTL bounds the lifetime of code-created accounts. Eternal
	// accounts are seeded at startup, never through a code.
	accountTTL time.Duration

	// mu serializes the check-then-redeem window across registrations in
	// this process. The store's conditional Redeem covers other processes.
	mu sync.Mutex
}

// New builds a Registrar. accountTTL applies to every account created
// through a registration code.
func New(users UserStore, codes CodeStore, tokens *auth.Manager, accountTTL time.Duration, logger *zap.Logger) *Registrar {
	return &Registrar{
		users:      users,
		codes:      codes,
		tokens:     tokens,
		log:        logger,
		accountTTL: accountTTL,
	}
}

// Register redeems a registration code and creates the account it entitles.
// The new account's role comes from the code. Errors pass through the store
// sentinels: regcodes.ErrNotFound for an unknown code, regcodes.ErrAlreadyUsed
// for a spent one, userstore.ErrDuplicateEmail when the email is taken (the
// code is left unburned in that case, so the caller can retry).
func (rg *Registrar) Register(ctx context.Context, code, email, password string) (models.User, string, error) {
	email = normalize.Email(email)
	if email == "" {
		return models.User{}, "", ErrMissingEmail
	}
	if len(password) < minPasswordLen {
		return models.User{}, "", ErrWeakPassword
	}

	rg.mu.Lock()
	defer rg.mu.Unlock()

	rc, err := rg.codes.GetByCode(ctx, code)
	if err != nil {
		return models.User{}, "", err
	}
	if rc.IsUsed {
		return models.User{}, "", regcodes.ErrAlreadyUsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, "", err
	}

	expiresAt := time.Now().UTC().Add(rg.accountTTL)
	u, err := rg.users.Create(ctx, models.User{
		Email:            email,
		PasswordHash:     string(hash),
		Role:             rc.Role,
		AccountExpiresAt: &expiresAt,
		IsActive:         true,
	})
	if err != nil {
		// Duplicate email or store failure: the code is still unused.
		return models.User{}, "", err
	}

	if _, err := rg.codes.Redeem(ctx, code); err != nil {
		// The account exists but the code could not be burned (raced by
		// another process, or a store failure). The account stands; the
		// leftover code needs an operator's eye.
		rg.log.Error("ANOMALY: account created but registration code not burned",
			zap.String("code", rc.Code),
			zap.String("email", email),
			zap.Error(err))
	}

	token, err := rg.tokens.Generate(u)
	if err != nil {
		return models.User{}, "", err
	}
	return u, token, nil
}

// Login authenticates an email/password pair and issues a token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (rg *Registrar) Login(ctx context.Context, email, password string) (models.User, string, error) {
	u, err := rg.users.GetByEmail(ctx, normalize.Email(email))
	if err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}
	if !u.IsActive || u.Expired(time.Now()) {
		return models.User{}, "", ErrAccountDisabled
	}

	token, err := rg.tokens.Generate(u)
	if err != nil {
		return models.User{}, "", err
	}
	return u, token, nil
}
