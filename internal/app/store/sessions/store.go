// internal/app/store/sessions/store.go
package sessions

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
	ErrNotFound              = errors.New("session not found")
	ErrDuplicateSessionName  = errors.New("a session with this name already exists")
	ErrDuplicateSponsorPhone = errors.New("a sponsor with this phone is already registered in the session")
	ErrSponsorNotFound       = errors.New("sponsor not found in session")
)

// Store manages sponsorship sessions and their embedded sponsor pools.
type Store struct {
	c *mongo.Collection
}

// New creates a sessions Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sessions")}
}

// EnsureIndexes creates the unique index backing session-name uniqueness.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_name_ci", Value: 1}},
			Options: options.Index().SetName("idx_sessions_name_ci").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "is_active", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_sessions_active"),
		},
	})
	return err
}

// Create inserts a new session. IDs and comparison keys are assigned here:
// the session gets a fresh ObjectID, each sponsor gets one too, and the
// *_ci fields are derived from the display values.
func (s *Store) Create(ctx context.Context, sess models.Session) (models.Session, error) {
	now := time.Now().UTC()
	sess.ID = primitive.NewObjectID()
	sess.SessionNameCI = normalize.NameKey(sess.SessionName)
	sess.IsActive = true
	for i := range sess.Sponsors {
		sess.Sponsors[i].ID = primitive.NewObjectID()
		sess.Sponsors[i].PhoneCI = normalize.Phone(sess.Sponsors[i].Phone)
	}
	sess.CreatedAt = now
	sess.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, sess); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Session{}, ErrDuplicateSessionName
		}
		return models.Session{}, err
	}
	return sess, nil
}

// GetByID fetches one session.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Session, error) {
	var sess models.Session
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sess); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Session{}, ErrNotFound
		}
		return models.Session{}, err
	}
	return sess, nil
}

// ListActive returns active sessions, newest first.
func (s *Store) ListActive(ctx context.Context) ([]models.Session, error) {
	return s.list(ctx, bson.M{"is_active": true})
}

// ListAll returns every session, active or not, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Session, error) {
	return s.list(ctx, bson.M{})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Session, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Session
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddSponsor appends a sponsor to the session pool. The push is conditional
// on no existing sponsor carrying the same whitespace-stripped phone, so a
// double self-registration cannot slip in between a read and a write.
func (s *Store) AddSponsor(ctx context.Context, sessionID primitive.ObjectID, sp models.Sponsor) (models.Sponsor, error) {
	sp.ID = primitive.NewObjectID()
	sp.PhoneCI = normalize.Phone(sp.Phone)
	sp.AssignedCount = 0

	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":               sessionID,
			"sponsors.phone_ci": bson.M{"$ne": sp.PhoneCI},
		},
		bson.M{
			"$push": bson.M{"sponsors": sp},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return models.Sponsor{}, err
	}
	if res.MatchedCount == 0 {
		// Either the session is gone or the phone is already in the pool.
		if _, err := s.GetByID(ctx, sessionID); err != nil {
			return models.Sponsor{}, err
		}
		return models.Sponsor{}, ErrDuplicateSponsorPhone
	}
	return sp, nil
}

// UpdateSponsorInfo rewrites a sponsor's name and phone in place.
// AssignedCount is untouched: only the matching engine moves it.
func (s *Store) UpdateSponsorInfo(ctx context.Context, sessionID, sponsorID primitive.ObjectID, name, phone string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": sessionID, "sponsors._id": sponsorID},
		bson.M{"$set": bson.M{
			"sponsors.$.name":     name,
			"sponsors.$.phone":    phone,
			"sponsors.$.phone_ci": normalize.Phone(phone),
			"updated_at":          time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSponsorNotFound
	}
	return nil
}

// IncrementSponsorCount adds one to a sponsor's assignment counter.
// Called exclusively from the matching engine's critical section.
func (s *Store) IncrementSponsorCount(ctx context.Context, sessionID, sponsorID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": sessionID, "sponsors._id": sponsorID},
		bson.M{
			"$inc": bson.M{"sponsors.$.assigned_count": 1},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSponsorNotFound
	}
	return nil
}

// SetActive toggles the registration window. Deactivation is the soft
// delete: the session and its history stay readable for admins.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a session for good. Returns the number of documents
// deleted (0 or 1). Pairing purge is the caller's responsibility.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
