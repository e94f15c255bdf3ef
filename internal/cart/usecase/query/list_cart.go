package query

import (
	"github.com/tair/allergy-scan/internal/cart/domain"
	"github.com/tair/allergy-scan/internal/cart/store"
)

// CartEntry is a cart item with its display status
type CartEntry struct {
	domain.CartItem
	Status domain.SafetyStatus `json:"status"`
}

// CartView is the cart as listed to the user
type CartView struct {
	Items      []CartEntry `json:"items"`
	Total      int         `json:"total"`
	Unsafe     int         `json:"unsafe"`
	Unverified int         `json:"unverified"`
}

// ListCartHandler handles list cart query
type ListCartHandler struct {
	store *store.Store
}

// NewListCartHandler creates a new list cart handler
func NewListCartHandler(s *store.Store) *ListCartHandler {
	return &ListCartHandler{store: s}
}

// Handle executes the list cart query
func (h *ListCartHandler) Handle() CartView {
	items := h.store.Items()
	view := CartView{Items: make([]CartEntry, 0, len(items)), Total: len(items)}
	for _, it := range items {
		status := it.Safety()
		switch status {
		case domain.StatusUnsafe:
			view.Unsafe++
		case domain.StatusUnverified:
			view.Unverified++
		}
		view.Items = append(view.Items, CartEntry{CartItem: it, Status: status})
	}
	return view
}
