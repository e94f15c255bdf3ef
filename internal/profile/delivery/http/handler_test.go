package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/tair/allergy-scan/internal/allergen"
	"github.com/tair/allergy-scan/internal/profile/store"
	"github.com/tair/allergy-scan/internal/profile/usecase/command"
	"github.com/tair/allergy-scan/internal/profile/usecase/query"
	"github.com/tair/allergy-scan/internal/state"
	"github.com/tair/allergy-scan/kafka"
)

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	s := store.NewStore(state.NewMemory())
	t.Cleanup(s.Close)
	reg := allergen.NewRegistry(allergen.Default())
	pub := kafka.NopPublisher{}

	h := NewProfileHandler(
		command.NewSaveProfileHandler(s, reg, pub),
		command.NewAddFamilyMemberHandler(s, reg, pub),
		command.NewRemoveFamilyMemberHandler(s, pub),
		command.NewSaveFamilyHandler(s, reg, pub),
		command.NewLogoutHandler(s, pub),
		query.NewGetProfileHandler(s),
		query.NewListFamilyHandler(s),
	)
	router := mux.NewRouter()
	h.RegisterRoutes(router, func(next http.HandlerFunc) http.HandlerFunc { return next })
	return router
}

func do(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	router.ServeHTTP(rec, req)
	return rec
}

func TestProfileLifecycle(t *testing.T) {
	router := newRouter(t)

	if rec := do(router, "GET", "/api/profile", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("GET before onboarding = %d", rec.Code)
	}

	rec := do(router, "PUT", "/api/profile", `{"name":"Ana","age":"34","allergies":["Milk"],"priority":"minimize"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT = %d: %s", rec.Code, rec.Body)
	}

	if rec := do(router, "POST", "/api/family", `{"name":"Leo","age":"6","allergies":["Peanuts"]}`); rec.Code != http.StatusCreated {
		t.Fatalf("POST family = %d: %s", rec.Code, rec.Body)
	}
	if rec := do(router, "POST", "/api/family/save", ""); rec.Code != http.StatusOK {
		t.Fatalf("save family = %d: %s", rec.Code, rec.Body)
	}

	rec = do(router, "GET", "/api/profile", "")
	var resp struct {
		Data struct {
			Allergies []string `json:"allergies"`
		} `json:"data"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if len(resp.Data.Allergies) != 2 {
		t.Fatalf("allergies = %v, want Milk and Peanuts", resp.Data.Allergies)
	}

	if rec := do(router, "DELETE", "/api/family/5", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("DELETE missing member = %d", rec.Code)
	}
	if rec := do(router, "DELETE", "/api/profile", ""); rec.Code != http.StatusOK {
		t.Fatalf("logout = %d", rec.Code)
	}
	if rec := do(router, "GET", "/api/profile", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("GET after logout = %d", rec.Code)
	}
}

func TestSaveProfileValidationIsBadRequest(t *testing.T) {
	router := newRouter(t)
	rec := do(router, "PUT", "/api/profile", `{"name":"","age":"34","allergies":["Milk"],"priority":"minimize"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
