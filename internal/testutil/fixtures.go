// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kevyamon/lokolink/internal/app/system/normalize"
	"github.com/kevyamon/lokolink/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateSession inserts a session with the given name, access code, and
// sponsor pool. Returns the session with its generated IDs.
func (f *Fixtures) CreateSession(ctx context.Context, name, code string, expected int, sponsors ...models.Sponsor) models.Session {
	f.t.Helper()

	now := time.Now().UTC()
	for i := range sponsors {
		if sponsors[i].ID.IsZero() {
			sponsors[i].ID = primitive.NewObjectID()
		}
		sponsors[i].PhoneCI = normalize.Phone(sponsors[i].Phone)
	}
	sess := models.Session{
		ID:                  primitive.NewObjectID(),
		SessionName:         name,
		SessionNameCI:       normalize.NameKey(name),
		AccessCode:          code,
		IsActive:            true,
		ExpectedGodchildren: expected,
		Sponsors:            sponsors,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if _, err := f.db.Collection("sessions").InsertOne(ctx, sess); err != nil {
		f.t.Fatalf("fixture session insert: %v", err)
	}
	return sess
}

// Sponsor builds a pool member without inserting anything.
func Sponsor(name, phone string) models.Sponsor {
	return models.Sponsor{
		ID:      primitive.NewObjectID(),
		Name:    name,
		Phone:   phone,
		PhoneCI: normalize.Phone(phone),
	}
}

// CreatePairing inserts a pairing for the given session.
func (f *Fixtures) CreatePairing(ctx context.Context, sessionID primitive.ObjectID, godchildName, sponsorName string) models.Pairing {
	f.t.Helper()

	p := models.Pairing{
		ID:             primitive.NewObjectID(),
		GodchildName:   godchildName,
		GodchildNameCI: normalize.NameKey(godchildName),
		GodchildGender: models.GenderFemme,
		SponsorName:    sponsorName,
		SponsorPhone:   "07 00 00 00",
		SessionID:      sessionID,
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := f.db.Collection("pairings").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("fixture pairing insert: %v", err)
	}
	return p
}

// CreateUser inserts an account with the given email and role.
func (f *Fixtures) CreateUser(ctx context.Context, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		EmailCI:      normalize.EmailKey(email),
		PasswordHash: "$2a$10$fixture.hash.not.a.real.password.hash.0000000000000",
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("fixture user insert: %v", err)
	}
	return u
}

// CreateCode inserts a registration code.
func (f *Fixtures) CreateCode(ctx context.Context, code, role string, used bool) models.RegistrationCode {
	f.t.Helper()

	rc := models.RegistrationCode{
		ID:        primitive.NewObjectID(),
		Code:      code,
		Role:      role,
		IsUsed:    used,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("registration_codes").InsertOne(ctx, rc); err != nil {
		f.t.Fatalf("fixture code insert: %v", err)
	}
	return rc
}
