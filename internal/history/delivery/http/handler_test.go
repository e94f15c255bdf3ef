package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/allergy-scan/internal/history/domain"
	"github.com/tair/allergy-scan/internal/history/repository"
	"github.com/tair/allergy-scan/internal/history/usecase/query"
)

func TestListHistoryNewestFirst(t *testing.T) {
	repo := repository.NewMemoryEntryRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, action := range []string{"first", "second", "third"} {
		repo.Add(context.Background(), &domain.Entry{ID: action, Action: action, OccurredAt: base.Add(time.Duration(i) * time.Hour)})
	}

	router := mux.NewRouter()
	NewHistoryHandler(query.NewListHistoryHandler(repo)).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/history?limit=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Data []domain.Entry `json:"data"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if len(resp.Data) != 2 || resp.Data[0].Action != "third" || resp.Data[1].Action != "second" {
		t.Fatalf("entries %+v", resp.Data)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/history?limit=x", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit status = %d", rec.Code)
	}
}
