package query

import (
	"errors"

	"github.com/tair/allergy-scan/internal/profile/domain"
	"github.com/tair/allergy-scan/internal/profile/store"
)

// ErrNoProfile is returned before onboarding or after logout
var ErrNoProfile = errors.New("no profile on this device")

// GetProfileHandler handles get profile query
type GetProfileHandler struct {
	store *store.Store
}

// NewGetProfileHandler creates a new get profile handler
func NewGetProfileHandler(s *store.Store) *GetProfileHandler {
	return &GetProfileHandler{store: s}
}

// Handle executes the get profile query
func (h *GetProfileHandler) Handle() (*domain.UserProfile, error) {
	p, ok := h.store.Profile()
	if !ok {
		return nil, ErrNoProfile
	}
	return &p, nil
}

// ListFamilyHandler handles list family query
type ListFamilyHandler struct {
	store *store.Store
}

// NewListFamilyHandler creates a new list family handler
func NewListFamilyHandler(s *store.Store) *ListFamilyHandler {
	return &ListFamilyHandler{store: s}
}

// Handle executes the list family query
func (h *ListFamilyHandler) Handle() []domain.FamilyMember {
	return h.store.Family()
}
