package command

import (
	"context"
	"strings"
	"time"

	"github.com/tair/allergy-scan/internal/cart/domain"
	"github.com/tair/allergy-scan/internal/cart/store"
	"github.com/tair/allergy-scan/kafka"
	"github.com/tair/allergy-scan/pkg/logger"
)

func publish(ctx context.Context, publisher kafka.EventPublisher, event kafka.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Str("event_type", event.EventType).Msg("Failed to publish event")
	}
}

// AddToCartCommand represents keeping a scanned product. Checked marks the
// allergens as the result of a check against the profile.
type AddToCartCommand struct {
	Barcode   string
	Name      string
	Image     string
	Allergens []string
	Checked   bool
}

// AddToCartHandler handles add to cart command
type AddToCartHandler struct {
	store     *store.Store
	publisher kafka.EventPublisher
	now       func() time.Time
}

// NewAddToCartHandler creates a new add to cart handler
func NewAddToCartHandler(s *store.Store, publisher kafka.EventPublisher) *AddToCartHandler {
	return &AddToCartHandler{store: s, publisher: publisher, now: time.Now}
}

// Handle executes the add to cart command. It reports false when the barcode
// was already in the cart.
func (h *AddToCartHandler) Handle(ctx context.Context, cmd AddToCartCommand) (domain.CartItem, bool, error) {
	item := domain.CartItem{
		Barcode:   strings.TrimSpace(cmd.Barcode),
		Name:      cmd.Name,
		Image:     cmd.Image,
		Allergens: append([]string{}, cmd.Allergens...),
	}
	if item.Barcode == "" {
		return domain.CartItem{}, false, domain.ErrInvalidItem
	}
	if cmd.Checked {
		t := h.now().UTC()
		item.CheckedAt = &t
	}

	if !h.store.Add(item) {
		return item, false, nil
	}

	publish(ctx, h.publisher, kafka.Event{
		EventType: kafka.EventTypeCartItemAdded,
		Barcode:   item.Barcode,
		Name:      item.Name,
		Allergens: item.Allergens,
	})
	return item, true, nil
}

// RemoveFromCartCommand represents removing every entry with Barcode
type RemoveFromCartCommand struct {
	Barcode string
}

// RemoveFromCartHandler handles remove from cart command
type RemoveFromCartHandler struct {
	store     *store.Store
	publisher kafka.EventPublisher
}

// NewRemoveFromCartHandler creates a new remove from cart handler
func NewRemoveFromCartHandler(s *store.Store, publisher kafka.EventPublisher) *RemoveFromCartHandler {
	return &RemoveFromCartHandler{store: s, publisher: publisher}
}

// Handle executes the remove command and returns how many entries went
func (h *RemoveFromCartHandler) Handle(ctx context.Context, cmd RemoveFromCartCommand) int {
	removed := h.store.Remove(cmd.Barcode)
	if removed > 0 {
		publish(ctx, h.publisher, kafka.Event{EventType: kafka.EventTypeCartItemRemoved, Barcode: cmd.Barcode})
	}
	return removed
}

// ClearCartHandler handles clear cart command
type ClearCartHandler struct {
	store     *store.Store
	publisher kafka.EventPublisher
}

// NewClearCartHandler creates a new clear cart handler
func NewClearCartHandler(s *store.Store, publisher kafka.EventPublisher) *ClearCartHandler {
	return &ClearCartHandler{store: s, publisher: publisher}
}

// Handle executes the clear cart command
func (h *ClearCartHandler) Handle(ctx context.Context) {
	h.store.Clear()
	publish(ctx, h.publisher, kafka.Event{EventType: kafka.EventTypeCartCleared})
}

// UpdateCartItemCommand represents merging Patch into the entry with Barcode
type UpdateCartItemCommand struct {
	Barcode string
	Patch   domain.CartItemPatch
}

// UpdateCartItemHandler handles update cart item command
type UpdateCartItemHandler struct {
	store     *store.Store
	publisher kafka.EventPublisher
}

// NewUpdateCartItemHandler creates a new update cart item handler
func NewUpdateCartItemHandler(s *store.Store, publisher kafka.EventPublisher) *UpdateCartItemHandler {
	return &UpdateCartItemHandler{store: s, publisher: publisher}
}

// Handle executes the update command
func (h *UpdateCartItemHandler) Handle(ctx context.Context, cmd UpdateCartItemCommand) (domain.CartItem, error) {
	item, ok := h.store.Update(cmd.Barcode, cmd.Patch)
	if !ok {
		return domain.CartItem{}, domain.ErrItemNotFound
	}
	publish(ctx, h.publisher, kafka.Event{
		EventType: kafka.EventTypeCartItemUpdated,
		Barcode:   item.Barcode,
		Name:      item.Name,
		Allergens: item.Allergens,
	})
	return item, nil
}
