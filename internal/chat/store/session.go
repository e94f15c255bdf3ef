package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tair/allergy-scan/internal/chat/domain"
	"github.com/tair/allergy-scan/internal/state"
)

// Session is the device's chat transcript and the state of its current turn.
// The transcript is append-only and lives in memory only.
type Session struct {
	mu       sync.RWMutex
	messages []domain.ChatMessage
	state    domain.TurnState

	changes state.Observable[domain.TurnState]
}

// NewSession creates a transcript holding the welcome message
func NewSession() *Session {
	return &Session{
		messages: []domain.ChatMessage{{ID: uuid.NewString(), Text: domain.WelcomeText}},
		state:    domain.StateIdle,
	}
}

// Begin appends the user's message and moves the turn to sending
func (s *Session) Begin(text string) (domain.ChatMessage, error) {
	s.mu.Lock()
	if s.state == domain.StateSending {
		s.mu.Unlock()
		return domain.ChatMessage{}, domain.ErrTurnInFlight
	}
	msg := domain.ChatMessage{ID: uuid.NewString(), Text: text, IsUser: true}
	s.messages = append(s.messages, msg)
	s.state = domain.StateSending
	s.mu.Unlock()

	s.changes.Notify(domain.StateSending)
	return msg, nil
}

// Finish appends the reply, records how the turn ended and returns to idle
func (s *Session) Finish(text string, outcome domain.TurnState) domain.ChatMessage {
	s.mu.Lock()
	msg := domain.ChatMessage{ID: uuid.NewString(), Text: text}
	s.messages = append(s.messages, msg)
	s.state = domain.StateIdle
	s.mu.Unlock()

	s.changes.Notify(outcome)
	s.changes.Notify(domain.StateIdle)
	return msg
}

// State returns the current turn state
func (s *Session) State() domain.TurnState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Messages returns a copy of the transcript
func (s *Session) Messages() []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ChatMessage(nil), s.messages...)
}

// Subscribe registers fn for every state transition
func (s *Session) Subscribe(fn func(domain.TurnState)) func() {
	return s.changes.Subscribe(fn)
}
