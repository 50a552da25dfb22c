package admin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kevyamon/lokolink/internal/app/features/admin"
	sessionstore "github.com/kevyamon/lokolink/internal/app/store/sessions"
	"github.com/kevyamon/lokolink/internal/app/system/auth"
	"github.com/kevyamon/lokolink/internal/domain/models"
)

type fakeSessions struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Session
}

func newFakeSessions(seed ...models.Session) *fakeSessions {
	f := &fakeSessions{byID: map[primitive.ObjectID]models.Session{}}
	for _, s := range seed {
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeSessions) ListAll(_ context.Context) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Session, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSessions) GetByID(_ context.Context, id primitive.ObjectID) (models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return models.Session{}, sessionstore.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessions) UpdateSponsorInfo(_ context.Context, sessionID, sponsorID primitive.ObjectID, name, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[sessionID]
	if !ok {
		return sessionstore.ErrNotFound
	}
	for i := range s.Sponsors {
		if s.Sponsors[i].ID == sponsorID {
			s.Sponsors[i].Name = name
			s.Sponsors[i].Phone = phone
			f.byID[sessionID] = s
			return nil
		}
	}
	return sessionstore.ErrSponsorNotFound
}

func (f *fakeSessions) SetActive(_ context.Context, id primitive.ObjectID, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return sessionstore.ErrNotFound
	}
	s.IsActive = active
	f.byID[id] = s
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return 0, nil
	}
	delete(f.byID, id)
	return 1, nil
}

type fakePairings struct {
	mu        sync.Mutex
	bySession map[primitive.ObjectID][]models.Pairing
	purged    []primitive.ObjectID
}

func newFakePairings() *fakePairings {
	return &fakePairings{bySession: map[primitive.ObjectID][]models.Pairing{}}
}

func (f *fakePairings) ListBySession(_ context.Context, sessionID primitive.ObjectID) ([]models.Pairing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bySession[sessionID], nil
}

func (f *fakePairings) DeleteBySession(_ context.Context, sessionID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.bySession[sessionID]))
	delete(f.bySession, sessionID)
	f.purged = append(f.purged, sessionID)
	return n, nil
}

type fakeCodes struct {
	mu      sync.Mutex
	created []models.RegistrationCode
}

func (f *fakeCodes) Create(_ context.Context, rc models.RegistrationCode) (models.RegistrationCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rc.ID = primitive.NewObjectID()
	f.created = append(f.created, rc)
	return rc, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events int
}

func (f *fakeNotifier) SessionChanged(_ models.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events++
}

type fixedUser struct{ u models.User }

func (s fixedUser) GetByID(_ context.Context, _ primitive.ObjectID) (models.User, error) {
	return s.u, nil
}

func adminSession() models.Session {
	return models.Session{
		ID:          primitive.NewObjectID(),
		SessionName: "Promo 2024",
		AccessCode:  "PROMO24",
		IsActive:    true,
		Sponsors: []models.Sponsor{
			{ID: primitive.NewObjectID(), Name: "Awa", Phone: "07 00 00 00"},
		},
	}
}

func serveAs(h *admin.Handler, role, method, target, body string) *httptest.ResponseRecorder {
	u := models.User{ID: primitive.NewObjectID(), Role: role, IsActive: true}
	tokens := auth.NewManager("test-secret", time.Hour)
	v := auth.NewVerifier(tokens, fixedUser{u: u}, zap.NewNop())
	router := admin.Routes(h, v)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	token, _ := tokens.Generate(u)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func newHandler(sessions *fakeSessions, pairings *fakePairings, codes *fakeCodes, notify *fakeNotifier) *admin.Handler {
	return admin.NewHandler(sessions, pairings, codes, notify, zap.NewNop())
}

func TestRoleGate(t *testing.T) {
	h := newHandler(newFakeSessions(), newFakePairings(), &fakeCodes{}, &fakeNotifier{})

	t.Run("delegate is forbidden", func(t *testing.T) {
		rec := serveAs(h, models.RoleDelegue, "GET", "/sessions", "")
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})
	t.Run("eternal is allowed", func(t *testing.T) {
		rec := serveAs(h, models.RoleEternal, "GET", "/sessions", "")
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
	t.Run("no token", func(t *testing.T) {
		router := admin.Routes(h, auth.NewVerifier(auth.NewManager("s", time.Hour), fixedUser{}, zap.NewNop()))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/sessions", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestSessionDetails_IncludesHistory(t *testing.T) {
	sess := adminSession()
	pairings := newFakePairings()
	pairings.bySession[sess.ID] = []models.Pairing{
		{ID: primitive.NewObjectID(), GodchildName: "Alice", SponsorName: "Awa", SessionID: sess.ID},
	}
	h := newHandler(newFakeSessions(sess), pairings, &fakeCodes{}, &fakeNotifier{})

	rec := serveAs(h, models.RoleSuperAdmin, "GET", "/sessions/"+sess.ID.Hex(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Session  models.Session   `json:"session"`
		Pairings []models.Pairing `json:"pairings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(resp.Session.Sponsors) != 1 {
		t.Error("full session document should include the sponsor pool")
	}
	if len(resp.Pairings) != 1 || resp.Pairings[0].GodchildName != "Alice" {
		t.Errorf("pairing history = %+v, want Alice's pairing", resp.Pairings)
	}
}

func TestUpdateSponsor(t *testing.T) {
	t.Run("success edits and notifies", func(t *testing.T) {
		sess := adminSession()
		store := newFakeSessions(sess)
		notify := &fakeNotifier{}
		h := newHandler(store, newFakePairings(), &fakeCodes{}, notify)

		target := "/sessions/" + sess.ID.Hex() + "/sponsors/" + sess.Sponsors[0].ID.Hex()
		rec := serveAs(h, models.RoleSuperAdmin, "PUT", target, `{"name":"Awa Traoré","phone":"07 99 99 99"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
		}

		got, _ := store.GetByID(context.Background(), sess.ID)
		if got.Sponsors[0].Name != "Awa Traoré" || got.Sponsors[0].Phone != "07 99 99 99" {
			t.Errorf("sponsor = %+v, edit not applied", got.Sponsors[0])
		}
		if notify.events != 1 {
			t.Errorf("notifications = %d, want 1", notify.events)
		}
	})

	t.Run("unknown sponsor", func(t *testing.T) {
		sess := adminSession()
		h := newHandler(newFakeSessions(sess), newFakePairings(), &fakeCodes{}, &fakeNotifier{})
		target := "/sessions/" + sess.ID.Hex() + "/sponsors/" + primitive.NewObjectID().Hex()
		rec := serveAs(h, models.RoleSuperAdmin, "PUT", target, `{"name":"X","phone":"Y"}`)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		sess := adminSession()
		h := newHandler(newFakeSessions(sess), newFakePairings(), &fakeCodes{}, &fakeNotifier{})
		target := "/sessions/" + sess.ID.Hex() + "/sponsors/" + sess.Sponsors[0].ID.Hex()
		rec := serveAs(h, models.RoleSuperAdmin, "PUT", target, `{"name":"","phone":"07"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestSetSessionActive(t *testing.T) {
	sess := adminSession()
	store := newFakeSessions(sess)
	notify := &fakeNotifier{}
	h := newHandler(store, newFakePairings(), &fakeCodes{}, notify)

	rec := serveAs(h, models.RoleSuperAdmin, "PATCH", "/sessions/"+sess.ID.Hex()+"/active", `{"isActive":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got, _ := store.GetByID(context.Background(), sess.ID)
	if got.IsActive {
		t.Error("session still active after toggle")
	}
	if notify.events != 1 {
		t.Errorf("notifications = %d, want 1", notify.events)
	}
}

func TestDeleteSession_PurgesHistory(t *testing.T) {
	sess := adminSession()
	store := newFakeSessions(sess)
	pairings := newFakePairings()
	pairings.bySession[sess.ID] = []models.Pairing{{ID: primitive.NewObjectID(), SessionID: sess.ID}}
	h := newHandler(store, pairings, &fakeCodes{}, &fakeNotifier{})

	rec := serveAs(h, models.RoleSuperAdmin, "DELETE", "/sessions/"+sess.ID.Hex(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if _, err := store.GetByID(context.Background(), sess.ID); err == nil {
		t.Error("session still present after hard delete")
	}
	if len(pairings.purged) != 1 || pairings.purged[0] != sess.ID {
		t.Error("pairing history not purged with the session")
	}

	t.Run("unknown session", func(t *testing.T) {
		rec := serveAs(h, models.RoleSuperAdmin, "DELETE", "/sessions/"+primitive.NewObjectID().Hex(), "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestCreateCode(t *testing.T) {
	t.Run("issues a single-use code", func(t *testing.T) {
		codes := &fakeCodes{}
		h := newHandler(newFakeSessions(), newFakePairings(), codes, &fakeNotifier{})

		rec := serveAs(h, models.RoleSuperAdmin, "POST", "/codes", `{"role":"delegue"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
		}
		if len(codes.created) != 1 {
			t.Fatalf("codes created = %d, want 1", len(codes.created))
		}
		rc := codes.created[0]
		if rc.Role != models.RoleDelegue {
			t.Errorf("role = %q, want delegue", rc.Role)
		}
		if rc.Code == "" {
			t.Error("issued code is empty")
		}
		if rc.CreatedBy == nil {
			t.Error("issuer not recorded on the code")
		}
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		h := newHandler(newFakeSessions(), newFakePairings(), &fakeCodes{}, &fakeNotifier{})
		for _, role := range []string{"eternal", "root", ""} {
			rec := serveAs(h, models.RoleSuperAdmin, "POST", "/codes", `{"role":"`+role+`"}`)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("role %q: status = %d, want 400", role, rec.Code)
			}
		}
	})
}
