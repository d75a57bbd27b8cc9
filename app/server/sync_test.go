package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/nkcin/restaurant-management-system/app/backend"
	"github.com/nkcin/restaurant-management-system/app/database"
	"github.com/nkcin/restaurant-management-system/app/store"
)

func newTestServer(t *testing.T, backendURL string) *Server {
	t.Helper()
	cache, err := database.Open(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	st := store.New(backend.NewClient(backendURL), cache)
	return New(st, backendURL, "ws://localhost:8080/ws")
}

func triggerSync(t *testing.T, s *Server) map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sync", nil)
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 unconditionally", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func assertFallback(t *testing.T, body map[string]any) {
	t.Helper()
	if body["success"] != true {
		t.Errorf("success = %v, want true", body["success"])
	}
	if _, ok := body["warning"].(string); !ok {
		t.Errorf("warning missing: %v", body)
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("data = %v", body["data"])
	}
	lastSync, ok := data["lastSync"].(string)
	if !ok {
		t.Fatalf("lastSync = %v", data["lastSync"])
	}
	if _, err := time.Parse(time.RFC3339, lastSync); err != nil {
		t.Errorf("lastSync %q not RFC3339: %v", lastSync, err)
	}
	records, ok := data["recordsSynced"].(map[string]any)
	if !ok {
		t.Fatalf("recordsSynced = %v", data["recordsSynced"])
	}
	for _, entity := range []string{"dishes", "ingredients", "orders", "analytics"} {
		if records[entity] != 0.0 {
			t.Errorf("recordsSynced[%q] = %v, want 0", entity, records[entity])
		}
	}
}

func TestSyncTriggerEnvelopePassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"lastSync":"2025-03-01T08:00:00Z","recordsSynced":{"dishes":12,"ingredients":7,"orders":3,"analytics":1}}}`))
	}))
	defer upstream.Close()

	body := triggerSync(t, newTestServer(t, upstream.URL))

	if _, ok := body["warning"]; ok {
		t.Errorf("real sync must not carry a warning: %v", body)
	}
	data := body["data"].(map[string]any)
	if data["lastSync"] != "2025-03-01T08:00:00Z" {
		t.Errorf("lastSync = %v", data["lastSync"])
	}
	records := data["recordsSynced"].(map[string]any)
	if records["dishes"] != 12.0 {
		t.Errorf("recordsSynced = %v", records)
	}
}

// A logical failure inside the envelope passes through untouched. The trigger
// forwards the backend's verdict; it does not launder failures into fallbacks.
func TestSyncTriggerErrorEnvelopePassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error":"database is locked"}`))
	}))
	defer upstream.Close()

	body := triggerSync(t, newTestServer(t, upstream.URL))

	if body["success"] != false {
		t.Errorf("success = %v, want false passed through", body["success"])
	}
	if body["error"] != "database is locked" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestSyncTriggerWrapsBareObject(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"lastSync":"2025-03-01T08:00:00Z"}`))
	}))
	defer upstream.Close()

	body := triggerSync(t, newTestServer(t, upstream.URL))

	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["lastSync"] != "2025-03-01T08:00:00Z" {
		t.Errorf("data = %v", body["data"])
	}
}

func TestSyncTriggerBackendErrorStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	assertFallback(t, triggerSync(t, newTestServer(t, upstream.URL)))
}

func TestSyncTriggerBackendUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	assertFallback(t, triggerSync(t, newTestServer(t, upstream.URL)))
}

func TestSyncTriggerNonJSONBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))
	defer upstream.Close()

	assertFallback(t, triggerSync(t, newTestServer(t, upstream.URL)))
}

func TestSyncHealth(t *testing.T) {
	s := newTestServer(t, "http://localhost:9")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data := body["data"].(map[string]any)
	if data["status"] != "ok" {
		t.Errorf("status = %v", data["status"])
	}
}
