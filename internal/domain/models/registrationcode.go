// internal/domain/models/registrationcode.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegistrationCode is a one-shot invitation that lets its holder create an
// account with the given role. Codes are issued by admins and burned on use.
type RegistrationCode struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Code      string              `bson:"code" json:"code"`
	Role      string              `bson:"role" json:"role"` // delegue | superadmin
	IsUsed    bool                `bson:"is_used" json:"is_used"`
	CreatedBy *primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UsedAt    *time.Time `bson:"used_at,omitempty" json:"used_at,omitempty"`
}
