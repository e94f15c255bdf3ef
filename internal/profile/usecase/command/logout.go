package command

import (
	"context"

	"github.com/tair/allergy-scan/internal/profile/store"
	"github.com/tair/allergy-scan/kafka"
)

// LogoutHandler clears the profile and deletes its blob. The family list and
// the cart stay on the device.
type LogoutHandler struct {
	store     *store.Store
	publisher kafka.EventPublisher
}

// NewLogoutHandler creates a new logout handler
func NewLogoutHandler(s *store.Store, publisher kafka.EventPublisher) *LogoutHandler {
	return &LogoutHandler{store: s, publisher: publisher}
}

// Handle executes the logout
func (h *LogoutHandler) Handle(ctx context.Context) {
	h.store.Clear()
	publish(ctx, h.publisher, kafka.Event{EventType: kafka.EventTypeProfileCleared})
}
