package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/allergy-scan/internal/chat/domain"
	"github.com/tair/allergy-scan/internal/chat/gate"
	"github.com/tair/allergy-scan/internal/chat/usecase/command"
	"github.com/tair/allergy-scan/internal/chat/usecase/query"
	"github.com/tair/allergy-scan/pkg/httpx"
	"github.com/tair/allergy-scan/pkg/metrics"
	"github.com/tair/allergy-scan/pkg/ratelimit"
)

// ChatHandler handles HTTP requests for the allergy assistant
type ChatHandler struct {
	sendHandler    *command.SendMessageHandler
	historyHandler *query.HistoryHandler
	limiter        *ratelimit.Limiter
}

// NewChatHandler creates a new chat handler. limiter may be nil.
func NewChatHandler(sendHandler *command.SendMessageHandler, historyHandler *query.HistoryHandler, limiter *ratelimit.Limiter) *ChatHandler {
	return &ChatHandler{sendHandler: sendHandler, historyHandler: historyHandler, limiter: limiter}
}

// RegisterRoutes registers the chat routes
func (h *ChatHandler) RegisterRoutes(router *mux.Router, protect func(http.HandlerFunc) http.HandlerFunc) {
	router.HandleFunc("/api/chat/messages", metrics.Instrument("/api/chat/messages", h.History)).Methods("GET")
	router.HandleFunc("/api/chat/messages", metrics.Instrument("/api/chat/messages", protect(h.limiter.Wrap(h.SendMessage)))).Methods("POST")
	router.HandleFunc("/api/chat/classify", metrics.Instrument("/api/chat/classify", h.Classify)).Methods("POST")
}

type textRequest struct {
	Text string `json:"text"`
}

// SendMessage handles POST /api/chat/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.sendHandler.Handle(r.Context(), command.SendMessageCommand{Text: req.Text})
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		httpx.RespondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, domain.ErrTurnInFlight):
		httpx.RespondError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		httpx.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpx.RespondData(w, http.StatusOK, "", result)
}

// History handles GET /api/chat/messages
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	httpx.RespondData(w, http.StatusOK, "", h.historyHandler.Handle())
}

// Classify handles POST /api/chat/classify
func (h *ChatHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	httpx.RespondData(w, http.StatusOK, "", map[string]domain.Topic{"topic": gate.Classify(req.Text)})
}
