// internal/domain/models/session.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sponsor is a pool member embedded in a Session. AssignedCount is owned by
// the matching engine: nothing else may increment it.
type Sponsor struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Phone         string             `bson:"phone" json:"phone"`
	PhoneCI       string             `bson:"phone_ci" json:"-"` // whitespace-stripped, for duplicate checks
	AssignedCount int                `bson:"assigned_count" json:"assigned_count"`
}

// Session is a time-bounded sponsorship event with its own sponsor pool,
// access code, and active flag. Sponsors have value semantics: they live and
// die with the session and are never removed individually.
type Session struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionName   string             `bson:"session_name" json:"session_name"`
	SessionNameCI string             `bson:"session_name_ci" json:"-"` // lowercase, diacritics-stripped
	AccessCode    string             `bson:"access_code" json:"-"`
	IsActive      bool               `bson:"is_active" json:"is_active"`

	// ExpectedGodchildren is the delegate's estimate of how many godchildren
	// will register. Zero means unknown, which disables surplus absorption.
	ExpectedGodchildren int `bson:"expected_godchildren" json:"expected_godchildren"`

	Sponsors []Sponsor `bson:"sponsors" json:"sponsors"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
