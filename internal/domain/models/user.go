// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account roles. Delegates run sessions; superadmins manage everything;
// eternal accounts are superadmins that never expire.
const (
	RoleDelegue    = "delegue"
	RoleSuperAdmin = "superadmin"
	RoleEternal    = "eternal"
)

// User represents a delegate or admin account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"` // lowercase, diacritics-stripped
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"`

	// AccountExpiresAt is nil for eternal accounts.
	AccountExpiresAt *time.Time `bson:"account_expires_at,omitempty" json:"account_expires_at,omitempty"`
	IsActive         bool       `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Expired reports whether the account is past its expiry date.
func (u User) Expired(now time.Time) bool {
	return u.AccountExpiresAt != nil && u.AccountExpiresAt.Before(now)
}
