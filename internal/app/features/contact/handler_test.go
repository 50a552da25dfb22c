package contact_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kevyamon/lokolink/internal/app/features/contact"
)

func get(h *contact.Handler) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	contact.Routes(h).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	return rec
}

func TestServe_Configured(t *testing.T) {
	h := contact.NewHandler(contact.Links{
		WhatsApp:    "https://wa.me/2250700000000",
		Facebook:    "https://facebook.com/lokolink",
		AdminNumber: "+225 07 00 00 00 00",
	}, zap.NewNop())

	rec := get(h)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if resp["whatsappLink"] == "" || resp["facebookLink"] == "" || resp["adminNumber"] == "" {
		t.Errorf("incomplete response: %v", resp)
	}
}

func TestServe_PartialConfigurationIsAnError(t *testing.T) {
	h := contact.NewHandler(contact.Links{
		WhatsApp: "https://wa.me/2250700000000",
	}, zap.NewNop())

	rec := get(h)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500 for partial configuration", rec.Code)
	}
}
