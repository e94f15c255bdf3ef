package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/allergy-scan/internal/history/usecase/query"
	"github.com/tair/allergy-scan/pkg/httpx"
	"github.com/tair/allergy-scan/pkg/logger"
	"github.com/tair/allergy-scan/pkg/metrics"
)

// HistoryHandler handles HTTP requests for the activity history
type HistoryHandler struct {
	listHandler *query.ListHistoryHandler
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(listHandler *query.ListHistoryHandler) *HistoryHandler {
	return &HistoryHandler{listHandler: listHandler}
}

// RegisterRoutes registers the history routes
func (h *HistoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/history", metrics.Instrument("/api/history", h.ListHistory)).Methods("GET")
}

// ListHistory handles GET /api/history
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.RespondError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.listHandler.Handle(r.Context(), query.ListHistoryQuery{Limit: limit})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list history")
		httpx.RespondError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}
	httpx.RespondData(w, http.StatusOK, "", entries)
}
