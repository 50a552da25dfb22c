// internal/app/store/regcodes/store.go
package regcodes

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kevyamon/lokolink/internal/domain/models"
)

var (
	ErrNotFound      = errors.New("registration code not found")
	ErrAlreadyUsed   = errors.New("registration code has already been used")
	ErrDuplicateCode = errors.New("registration code already exists")
)

// Store manages one-shot account registration codes.
type Store struct {
	c *mongo.Collection
}

// New creates a registration codes Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("registration_codes")}
}

// EnsureIndexes creates the unique code index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetName("idx_regcodes_code").SetUnique(true),
		},
	})
	return err
}

// Create issues a new unused code.
func (s *Store) Create(ctx context.Context, rc models.RegistrationCode) (models.RegistrationCode, error) {
	rc.ID = primitive.NewObjectID()
	rc.Code = strings.TrimSpace(rc.Code)
	rc.IsUsed = false
	rc.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, rc); err != nil {
		if wafflemongo.IsDup(err) {
			return models.RegistrationCode{}, ErrDuplicateCode
		}
		return models.RegistrationCode{}, err
	}
	return rc, nil
}

// GetByCode fetches a code record regardless of used state.
func (s *Store) GetByCode(ctx context.Context, code string) (models.RegistrationCode, error) {
	var rc models.RegistrationCode
	err := s.c.FindOne(ctx, bson.M{"code": strings.TrimSpace(code)}).Decode(&rc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.RegistrationCode{}, ErrNotFound
		}
		return models.RegistrationCode{}, err
	}
	return rc, nil
}

// Redeem burns a code: the update matches only unused codes, so two
// concurrent redemptions of the same code cannot both succeed even without
// the registrar's serialization above this store.
func (s *Store) Redeem(ctx context.Context, code string) (models.RegistrationCode, error) {
	now := time.Now().UTC()
	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"code": strings.TrimSpace(code), "is_used": false},
		bson.M{"$set": bson.M{"is_used": true, "used_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var rc models.RegistrationCode
	if err := res.Decode(&rc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Distinguish a spent code from an unknown one.
			if _, lookupErr := s.GetByCode(ctx, code); lookupErr == nil {
				return models.RegistrationCode{}, ErrAlreadyUsed
			}
			return models.RegistrationCode{}, ErrNotFound
		}
		return models.RegistrationCode{}, err
	}
	return rc, nil
}
