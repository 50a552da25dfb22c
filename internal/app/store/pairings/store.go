// internal/app/store/pairings/store.go
package pairings

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kevyamon/lokolink/internal/app/system/normalize"
	"github.com/kevyamon/lokolink/internal/domain/models"
)

var (
	ErrNotFound  = errors.New("pairing not found")
	ErrDuplicate = errors.New("a pairing already exists for this godchild in this session")
)

// Store is the append-only ledger of godchild→sponsor assignments.
type Store struct {
	c *mongo.Collection
}

// New creates a pairings Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("pairings")}
}

// EnsureIndexes creates the unique index that backs the one-pairing-per-
// godchild-per-session invariant, plus the session history index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "godchild_name_ci", Value: 1}},
			Options: options.Index().SetName("idx_pairings_session_godchild").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_pairings_session_created"),
		},
	})
	return err
}

// Create appends a pairing. The godchild comparison key is derived here
// from the display name.
func (s *Store) Create(ctx context.Context, p models.Pairing) (models.Pairing, error) {
	p.ID = primitive.NewObjectID()
	p.GodchildName = normalize.Name(p.GodchildName)
	p.GodchildNameCI = normalize.NameKey(p.GodchildName)
	p.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Pairing{}, ErrDuplicate
		}
		return models.Pairing{}, err
	}
	return p, nil
}

// FindByGodchild looks up the pairing for a folded godchild name within a
// session. This is the idempotence check: callers pass normalize.NameKey
// output so any casing or whitespace variant of the same name matches.
func (s *Store) FindByGodchild(ctx context.Context, sessionID primitive.ObjectID, nameKey string) (models.Pairing, error) {
	var p models.Pairing
	err := s.c.FindOne(ctx, bson.M{
		"session_id":       sessionID,
		"godchild_name_ci": nameKey,
	}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Pairing{}, ErrNotFound
		}
		return models.Pairing{}, err
	}
	return p, nil
}

// CountBySession returns how many pairings the session has recorded. The
// matching engine reads this inside its critical section as the arrival
// rank of the next registrant.
func (s *Store) CountBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"session_id": sessionID})
}

// ListBySession returns a session's pairings in creation order.
func (s *Store) ListBySession(ctx context.Context, sessionID primitive.ObjectID) ([]models.Pairing, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"session_id": sessionID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Pairing
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteBySession purges a session's pairing history. Used only by the
// administrative hard delete. Returns the number of documents removed.
func (s *Store) DeleteBySession(ctx context.Context, sessionID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
