package setup_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	setuphandler "github.com/presscoach/backend/internal/handler/setup"
)

func getDefaults(t *testing.T, startupFile string) string {
	t.Helper()

	r := chi.NewRouter()
	setuphandler.New(startupFile).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/setup/defaults", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		StartupDescription string `json:"startupDescription"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StartupDescription
}

func TestHandleDefaultsReadsSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "startup.txt")
	if err := os.WriteFile(path, []byte("  We build developer tools.\n"), 0o644); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	got := getDefaults(t, path)
	if got != "We build developer tools." {
		t.Errorf("expected trimmed seed content, got %q", got)
	}
}

func TestHandleDefaultsMissingFile(t *testing.T) {
	got := getDefaults(t, filepath.Join(t.TempDir(), "absent.txt"))
	if got != "" {
		t.Errorf("expected empty description for absent file, got %q", got)
	}
}
