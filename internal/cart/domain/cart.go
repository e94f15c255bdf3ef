package domain

import (
	"errors"
	"time"
)

var (
	// ErrItemNotFound is returned when no cart entry has the barcode
	ErrItemNotFound = errors.New("cart item not found")
	// ErrInvalidItem is returned for an item without a barcode
	ErrInvalidItem = errors.New("cart item needs a barcode")
)

// CartItem is a scanned product the user kept. Allergens are the ones
// detected when it was added.
type CartItem struct {
	Barcode   string     `json:"barcode"`
	Name      string     `json:"name"`
	Image     string     `json:"image,omitempty"`
	Allergens []string   `json:"allergens"`
	CheckedAt *time.Time `json:"checkedAt,omitempty"`
}

// Clone returns a deep copy
func (c CartItem) Clone() CartItem {
	c.Allergens = append([]string(nil), c.Allergens...)
	if c.CheckedAt != nil {
		t := *c.CheckedAt
		c.CheckedAt = &t
	}
	return c
}

// CloneItems deep-copies a cart
func CloneItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}

// SafetyStatus classifies a cart item for display
type SafetyStatus string

const (
	StatusUnsafe SafetyStatus = "unsafe"
	// StatusSafe means the item was checked against the allergen list and
	// nothing was found
	StatusSafe SafetyStatus = "safe"
	// StatusUnverified means no allergens are recorded but there is no
	// record of a check either
	StatusUnverified SafetyStatus = "unverified"
)

// Safety returns the item's status
func (c CartItem) Safety() SafetyStatus {
	switch {
	case len(c.Allergens) > 0:
		return StatusUnsafe
	case c.CheckedAt != nil:
		return StatusSafe
	default:
		return StatusUnverified
	}
}

// CartItemPatch holds the fields to merge into an item; nil fields are kept
type CartItemPatch struct {
	Name      *string   `json:"name,omitempty"`
	Image     *string   `json:"image,omitempty"`
	Allergens *[]string `json:"allergens,omitempty"`
}

// Apply merges the patch into item
func (p CartItemPatch) Apply(item CartItem) CartItem {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Image != nil {
		item.Image = *p.Image
	}
	if p.Allergens != nil {
		item.Allergens = append([]string(nil), (*p.Allergens)...)
	}
	return item
}

// Empty reports whether the patch changes nothing
func (p CartItemPatch) Empty() bool {
	return p.Name == nil && p.Image == nil && p.Allergens == nil
}
