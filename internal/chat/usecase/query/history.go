package query

import (
	"github.com/tair/allergy-scan/internal/chat/domain"
	"github.com/tair/allergy-scan/internal/chat/store"
)

// Transcript is the chat as shown to the user
type Transcript struct {
	Messages []domain.ChatMessage `json:"messages"`
	State    domain.TurnState     `json:"state"`
}

// HistoryHandler handles chat history query
type HistoryHandler struct {
	session *store.Session
}

// NewHistoryHandler creates a new chat history handler
func NewHistoryHandler(session *store.Session) *HistoryHandler {
	return &HistoryHandler{session: session}
}

// Handle returns the transcript
func (h *HistoryHandler) Handle() Transcript {
	return Transcript{Messages: h.session.Messages(), State: h.session.State()}
}
