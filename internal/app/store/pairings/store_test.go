package pairings_test

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kevyamon/lokolink/internal/app/store/pairings"
	"github.com/kevyamon/lokolink/internal/app/system/normalize"
	"github.com/kevyamon/lokolink/internal/domain/models"
	"github.com/kevyamon/lokolink/internal/testutil"
)

func newTestStore(t *testing.T) *pairings.Store {
	t.Helper()
	db := testutil.SetupTestDB(t)
	store := pairings.New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	return store
}

func TestCreate_DerivesGodchildKey(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Pairing{
		GodchildName:   "  Aïcha   Traoré ",
		GodchildGender: models.GenderFemme,
		SponsorName:    "Awa Koné",
		SponsorPhone:   "07 00 00 01",
		SessionID:      primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID.IsZero() {
		t.Error("expected a pairing ID to be assigned")
	}
	if created.GodchildName != "Aïcha Traoré" {
		t.Errorf("GodchildName = %q, want collapsed display form", created.GodchildName)
	}
	if created.GodchildNameCI != normalize.NameKey(created.GodchildName) {
		t.Errorf("GodchildNameCI = %q", created.GodchildNameCI)
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestCreate_OnePairingPerGodchildPerSession(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sessionID := primitive.NewObjectID()
	if _, err := store.Create(ctx, models.Pairing{
		GodchildName: "Aïcha Traoré",
		SponsorName:  "Awa",
		SessionID:    sessionID,
	}); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	// Name variants collide within the session.
	for _, name := range []string{"Aïcha Traoré", "AÏCHA TRAORÉ", " aïcha  traoré "} {
		_, err := store.Create(ctx, models.Pairing{
			GodchildName: name,
			SponsorName:  "Brice",
			SessionID:    sessionID,
		})
		if !errors.Is(err, pairings.ErrDuplicate) {
			t.Errorf("Create(%q): err = %v, want ErrDuplicate", name, err)
		}
	}

	// The same godchild in another session is a fresh registration.
	if _, err := store.Create(ctx, models.Pairing{
		GodchildName: "Aïcha Traoré",
		SponsorName:  "Chantal",
		SessionID:    primitive.NewObjectID(),
	}); err != nil {
		t.Errorf("other session: err = %v, want nil", err)
	}
}

func TestFindByGodchild(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sessionID := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Pairing{
		GodchildName: "Aïcha Traoré",
		SponsorName:  "Awa",
		SessionID:    sessionID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.FindByGodchild(ctx, sessionID, normalize.NameKey("AÏCHA traoré"))
	if err != nil {
		t.Fatalf("FindByGodchild: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("found pairing %s, want %s", got.ID.Hex(), created.ID.Hex())
	}

	_, err = store.FindByGodchild(ctx, sessionID, normalize.NameKey("Quelqu'un d'Autre"))
	if !errors.Is(err, pairings.ErrNotFound) {
		t.Errorf("unknown godchild: err = %v, want ErrNotFound", err)
	}

	_, err = store.FindByGodchild(ctx, primitive.NewObjectID(), normalize.NameKey("Aïcha Traoré"))
	if !errors.Is(err, pairings.ErrNotFound) {
		t.Errorf("other session: err = %v, want ErrNotFound", err)
	}
}

func TestCountAndListBySession(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sessionID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	names := []string{"Premier", "Deuxième", "Troisième"}
	for _, name := range names {
		if _, err := store.Create(ctx, models.Pairing{GodchildName: name, SponsorName: "Awa", SessionID: sessionID}); err != nil {
			t.Fatalf("Create(%q): %v", name, err)
		}
		// BSON dates have millisecond precision; keep the sort keys distinct.
		time.Sleep(2 * time.Millisecond)
	}
	if _, err := store.Create(ctx, models.Pairing{GodchildName: "Ailleurs", SponsorName: "Brice", SessionID: otherID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := store.CountBySession(ctx, sessionID)
	if err != nil {
		t.Fatalf("CountBySession: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}

	list, err := store.ListBySession(ctx, sessionID)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("list has %d pairings, want 3", len(list))
	}
	for i, name := range names {
		if list[i].GodchildName != name {
			t.Errorf("list[%d] = %q, want %q (creation order)", i, list[i].GodchildName, name)
		}
	}
}

func TestDeleteBySession(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sessionID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	for _, name := range []string{"Un", "Deux"} {
		if _, err := store.Create(ctx, models.Pairing{GodchildName: name, SponsorName: "Awa", SessionID: sessionID}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if _, err := store.Create(ctx, models.Pairing{GodchildName: "Trois", SponsorName: "Brice", SessionID: otherID}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := store.DeleteBySession(ctx, sessionID)
	if err != nil {
		t.Fatalf("DeleteBySession: %v", err)
	}
	if n != 2 {
		t.Errorf("removed %d pairings, want 2", n)
	}

	if remaining, err := store.CountBySession(ctx, otherID); err != nil || remaining != 1 {
		t.Errorf("other session count = %d (err %v), want 1", remaining, err)
	}
}
