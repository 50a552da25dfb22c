// internal/domain/models/pairing.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Godchild genders accepted by the registration form.
const (
	GenderHomme = "Homme"
	GenderFemme = "Femme"
)

// Pairing is the immutable record of one completed godchild→sponsor(s)
// assignment. For a duo, SponsorName is "A & B" and SponsorPhone "P1 / P2".
//
// At most one pairing exists per (session_id, godchild_name_ci); that pair is
// the idempotence key for replayed registrations and is enforced by a unique
// index on the collection.
type Pairing struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GodchildName    string             `bson:"godchild_name" json:"godchild_name"`
	GodchildNameCI  string             `bson:"godchild_name_ci" json:"-"` // lowercase, diacritics-stripped
	GodchildGender  string             `bson:"godchild_gender" json:"godchild_gender"`
	SponsorName     string             `bson:"sponsor_name" json:"sponsor_name"`
	SponsorPhone    string             `bson:"sponsor_phone" json:"sponsor_phone"`
	Duo             bool               `bson:"duo" json:"duo"`
	SessionID       primitive.ObjectID `bson:"session_id" json:"session_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
