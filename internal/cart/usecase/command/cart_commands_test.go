package command

import (
	"context"
	"testing"
	"time"

	"github.com/tair/allergy-scan/internal/cart/domain"
	"github.com/tair/allergy-scan/internal/cart/store"
	"github.com/tair/allergy-scan/internal/state"
	"github.com/tair/allergy-scan/kafka"
)

type recordingPublisher struct {
	events []kafka.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e kafka.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) types() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType
	}
	return out
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s := store.NewStore(state.NewMemory())
	t.Cleanup(s.Close)
	return s
}

func TestAddToCartStampsCheck(t *testing.T) {
	s := newStore(t)
	pub := &recordingPublisher{}
	h := NewAddToCartHandler(s, pub)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	item, added, err := h.Handle(context.Background(), AddToCartCommand{Barcode: " 42 ", Name: "Tea", Checked: true})
	if err != nil || !added {
		t.Fatalf("Handle() = %v, %v", added, err)
	}
	if item.Barcode != "42" || item.CheckedAt == nil || !item.CheckedAt.Equal(fixed) {
		t.Fatalf("item %+v", item)
	}
	if item.Safety() != domain.StatusSafe {
		t.Fatalf("status %s", item.Safety())
	}

	_, added, _ = h.Handle(context.Background(), AddToCartCommand{Barcode: "42"})
	if added {
		t.Fatal("duplicate barcode added")
	}
	if got := pub.types(); len(got) != 1 || got[0] != kafka.EventTypeCartItemAdded {
		t.Fatalf("events %v", got)
	}
}

func TestAddToCartRejectsBlankBarcode(t *testing.T) {
	h := NewAddToCartHandler(newStore(t), kafka.NopPublisher{})
	if _, _, err := h.Handle(context.Background(), AddToCartCommand{Barcode: "  "}); err != domain.ErrInvalidItem {
		t.Fatalf("err = %v", err)
	}
}

func TestRemoveUpdateClear(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	pub := &recordingPublisher{}
	NewAddToCartHandler(s, pub).Handle(ctx, AddToCartCommand{Barcode: "1", Allergens: []string{"milk"}})

	name := "Renamed"
	item, err := NewUpdateCartItemHandler(s, pub).Handle(ctx, UpdateCartItemCommand{
		Barcode: "1",
		Patch:   domain.CartItemPatch{Name: &name},
	})
	if err != nil || item.Name != "Renamed" {
		t.Fatalf("update = %+v, %v", item, err)
	}
	if _, err := NewUpdateCartItemHandler(s, pub).Handle(ctx, UpdateCartItemCommand{Barcode: "x"}); err != domain.ErrItemNotFound {
		t.Fatalf("update missing err = %v", err)
	}

	remove := NewRemoveFromCartHandler(s, pub)
	if n := remove.Handle(ctx, RemoveFromCartCommand{Barcode: "1"}); n != 1 {
		t.Fatalf("removed %d", n)
	}
	if n := remove.Handle(ctx, RemoveFromCartCommand{Barcode: "1"}); n != 0 {
		t.Fatalf("second remove dropped %d", n)
	}

	NewClearCartHandler(s, pub).Handle(ctx)

	want := []string{
		kafka.EventTypeCartItemAdded,
		kafka.EventTypeCartItemUpdated,
		kafka.EventTypeCartItemRemoved,
		kafka.EventTypeCartCleared,
	}
	got := pub.types()
	if len(got) != len(want) {
		t.Fatalf("events %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events %v, want %v", got, want)
		}
	}
}
