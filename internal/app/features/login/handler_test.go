package login_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/kevyamon/lokolink/internal/app/features/login"
	"github.com/kevyamon/lokolink/internal/app/store/regcodes"
	userstore "github.com/kevyamon/lokolink/internal/app/store/users"
	"github.com/kevyamon/lokolink/internal/app/system/accounts"
	"github.com/kevyamon/lokolink/internal/domain/models"
)

type fakeAccounts struct {
	user  models.User
	token string
	err   error
}

func (f *fakeAccounts) Register(_ context.Context, _, _, _ string) (models.User, string, error) {
	return f.user, f.token, f.err
}

func (f *fakeAccounts) Login(_ context.Context, _, _ string) (models.User, string, error) {
	return f.user, f.token, f.err
}

func post(h *login.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	login.Routes(h).ServeHTTP(rec, req)
	return rec
}

func TestLogin(t *testing.T) {
	u := models.User{ID: primitive.NewObjectID(), Email: "d@l.test", Role: models.RoleDelegue}

	t.Run("success", func(t *testing.T) {
		h := login.NewHandler(&fakeAccounts{user: u, token: "tok-123"}, zap.NewNop())
		rec := post(h, "/login", `{"email":"d@l.test","password":"s3cret!"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp struct {
			Token string `json:"token"`
			Role  string `json:"role"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad body: %v", err)
		}
		if resp.Token != "tok-123" || resp.Role != models.RoleDelegue {
			t.Errorf("got token=%q role=%q", resp.Token, resp.Role)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		h := login.NewHandler(&fakeAccounts{}, zap.NewNop())
		rec := post(h, "/login", `{"email":"d@l.test"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("bad credentials", func(t *testing.T) {
		h := login.NewHandler(&fakeAccounts{err: accounts.ErrInvalidCredentials}, zap.NewNop())
		rec := post(h, "/login", `{"email":"d@l.test","password":"wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("disabled account", func(t *testing.T) {
		h := login.NewHandler(&fakeAccounts{err: accounts.ErrAccountDisabled}, zap.NewNop())
		rec := post(h, "/login", `{"email":"d@l.test","password":"s3cret!"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestRegister(t *testing.T) {
	u := models.User{ID: primitive.NewObjectID(), Email: "new@l.test", Role: models.RoleDelegue}
	body := `{"code":"ABC-123","email":"new@l.test","password":"s3cret!"}`

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"success", nil, http.StatusCreated},
		{"unknown code", regcodes.ErrNotFound, http.StatusNotFound},
		{"spent code", regcodes.ErrAlreadyUsed, http.StatusConflict},
		{"email taken", userstore.ErrDuplicateEmail, http.StatusConflict},
		{"weak password", accounts.ErrWeakPassword, http.StatusBadRequest},
		{"missing email", accounts.ErrMissingEmail, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := login.NewHandler(&fakeAccounts{user: u, token: "tok-456", err: tt.err}, zap.NewNop())
			rec := post(h, "/register", body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}

	t.Run("missing code rejected at the boundary", func(t *testing.T) {
		h := login.NewHandler(&fakeAccounts{}, zap.NewNop())
		rec := post(h, "/register", `{"email":"new@l.test","password":"s3cret!"}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}
