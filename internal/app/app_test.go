package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tair/allergy-scan/config"
	"github.com/tair/allergy-scan/internal/state"
)

func newTestApp(t *testing.T) (*App, *Infrastructure) {
	t.Helper()
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/111.json") {
			w.Write([]byte(`{"status":1,"product":{"product_name":"Peanut Bar","ingredients_text":"oats, peanuts, honey"}}`))
			return
		}
		w.Write([]byte(`{"status":0}`))
	}))
	t.Cleanup(api.Close)

	cfg := &config.Config{
		ServiceName:       "allergyscan-test",
		StateBackend:      config.BackendMemory,
		ProductAPIBaseURL: api.URL,
		ProductAPITimeout: time.Second,
		LookupMaxRetries:  2,
		LookupRetryDelay:  time.Millisecond,
	}
	infra, err := NewInfrastructure(cfg)
	if err != nil {
		t.Fatalf("NewInfrastructure() error = %v", err)
	}
	a, err := InitializeApp(cfg, infra)
	if err != nil {
		t.Fatalf("InitializeApp() error = %v", err)
	}
	if err := a.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return a, infra
}

func do(t *testing.T, a *App, method, path, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var resp map[string]json.RawMessage
	json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec.Code, resp
}

func TestScanAgainstProfileAndKeep(t *testing.T) {
	a, infra := newTestApp(t)

	if code, _ := do(t, a, "PUT", "/api/profile", `{"name":"Ana","age":"30","allergies":["Peanuts"],"priority":"products"}`); code != http.StatusOK {
		t.Fatalf("save profile = %d", code)
	}

	code, resp := do(t, a, "GET", "/api/products/111?screen=scanner", "")
	if code != http.StatusOK {
		t.Fatalf("scan = %d", code)
	}
	var scan struct {
		Annotated struct {
			DetectedAllergens []string `json:"detected_allergens"`
			Safe              bool     `json:"safe"`
		} `json:"annotated"`
	}
	json.Unmarshal(resp["data"], &scan)
	if len(scan.Annotated.DetectedAllergens) != 1 || scan.Annotated.DetectedAllergens[0] != "peanuts" || scan.Annotated.Safe {
		t.Fatalf("scan result %s", resp["data"])
	}

	if code, _ := do(t, a, "POST", "/api/cart", `{"barcode":"111","name":"Peanut Bar","allergens":["peanuts"]}`); code != http.StatusCreated {
		t.Fatalf("add to cart = %d", code)
	}

	a.Shutdown()

	// The profile and cart blobs survive the shutdown flush
	for _, key := range []string{state.KeyUserProfile, state.KeyCart} {
		if _, err := infra.KV.Get(context.Background(), key); err != nil {
			t.Fatalf("%s not persisted: %v", key, err)
		}
	}
}

func TestUnknownBarcodeGetsThreeAttempts(t *testing.T) {
	a, _ := newTestApp(t)
	defer a.Shutdown()

	code, resp := do(t, a, "GET", "/api/products/999", "")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d", code)
	}
	var result struct {
		Attempts int `json:"attempts"`
	}
	json.Unmarshal(resp["data"], &result)
	if result.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", result.Attempts)
	}
}

func TestEventsReachHistory(t *testing.T) {
	a, _ := newTestApp(t)
	defer a.Shutdown()

	do(t, a, "PUT", "/api/profile", `{"name":"Ana","age":"30","allergies":["Milk"],"priority":"minimize"}`)
	do(t, a, "POST", "/api/cart", `{"barcode":"5","name":"Tea"}`)

	_, resp := do(t, a, "GET", "/api/history", "")
	var entries []struct {
		Action string `json:"action"`
	}
	json.Unmarshal(resp["data"], &entries)

	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.Action] = true
	}
	for _, want := range []string{"Profile Updated", "Allergy Added: Milk", "Added to Cart: Tea"} {
		if !seen[want] {
			t.Errorf("history missing %q: %+v", want, entries)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	a, _ := newTestApp(t)
	defer a.Shutdown()

	if code, _ := do(t, a, "GET", "/health", ""); code != http.StatusOK {
		t.Fatalf("health = %d", code)
	}
}
