package persona_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	personahandler "github.com/presscoach/backend/internal/handler/persona"
	"github.com/presscoach/backend/internal/model/persona"
)

func TestHandleListPersonas(t *testing.T) {
	r := chi.NewRouter()
	personahandler.New(persona.NewMemoryStore(persona.Seed())).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/personas", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Personas     []persona.Persona `json:"personas"`
		Difficulties []string          `json:"difficulties"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Personas) == 0 {
		t.Fatal("expected at least one persona")
	}
	found := false
	for _, p := range resp.Personas {
		if p.ID == "techcrunch" {
			found = true
			if p.Name == "" || p.Style == "" {
				t.Errorf("persona %q is missing display fields", p.ID)
			}
		}
	}
	if !found {
		t.Error("expected the techcrunch persona in the catalog")
	}

	want := []string{"Easy", "Medium", "Hard", "Nightmare"}
	if len(resp.Difficulties) != len(want) {
		t.Fatalf("expected %d difficulties, got %d", len(want), len(resp.Difficulties))
	}
	for i, d := range want {
		if resp.Difficulties[i] != d {
			t.Errorf("difficulty %d: expected %q, got %q", i, d, resp.Difficulties[i])
		}
	}
}
