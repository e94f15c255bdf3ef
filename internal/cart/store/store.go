package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/tair/allergy-scan/internal/cart/domain"
	"github.com/tair/allergy-scan/internal/state"
	"github.com/tair/allergy-scan/pkg/logger"
	"github.com/tair/allergy-scan/pkg/metrics"
)

// Store is the single shared cart. Changes apply in memory at once; the whole
// cart is then written out without waiting. A failed write is logged and the
// in-memory cart stays authoritative.
type Store struct {
	kv state.KV

	mu    sync.RWMutex
	items []domain.CartItem

	blob    *state.Persister
	changes state.Observable[[]domain.CartItem]
}

// NewStore creates an empty cart writing through kv
func NewStore(kv state.KV) *Store {
	return &Store{
		kv:    kv,
		items: []domain.CartItem{},
		blob:  state.NewPersister(kv, "cart", state.KeyCart),
	}
}

// Load reads the cart blob once at startup. An unreadable blob loads as an
// empty cart.
func (s *Store) Load(ctx context.Context) error {
	var items []domain.CartItem
	if _, err := state.LoadJSON(ctx, s.kv, state.KeyCart, &items); err != nil {
		logger.Warn(ctx).Err(err).Msg("Ignoring stored cart")
		items = nil
	}
	if items == nil {
		items = []domain.CartItem{}
	}

	s.mu.Lock()
	s.items = items
	snapshot := domain.CloneItems(items)
	s.mu.Unlock()

	metrics.CartSize.Set(float64(len(snapshot)))
	logger.Info(ctx).Int("items", len(snapshot)).Msg("Cart loaded")
	s.changes.Notify(snapshot)
	return nil
}

// Items returns a copy of the cart in insertion order
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneItems(s.items)
}

// Len returns the number of items
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// commit installs items, queues the write and notifies. Called with mu held;
// it releases the lock.
func (s *Store) commit(items []domain.CartItem, remove bool) {
	s.items = items
	if remove {
		s.blob.Remove()
	} else if data, err := json.Marshal(items); err == nil {
		s.blob.Save(data)
	} else {
		logger.Logger.Error().Err(err).Msg("Failed to encode cart")
	}
	snapshot := domain.CloneItems(items)
	s.mu.Unlock()

	metrics.CartSize.Set(float64(len(snapshot)))
	s.changes.Notify(snapshot)
}

// Add appends item unless its barcode is already present. It reports whether
// the cart changed.
func (s *Store) Add(item domain.CartItem) bool {
	s.mu.Lock()
	for _, existing := range s.items {
		if existing.Barcode == item.Barcode {
			s.mu.Unlock()
			return false
		}
	}
	items := append(domain.CloneItems(s.items), item.Clone())
	s.commit(items, false)
	return true
}

// Remove drops every entry with barcode and returns how many were dropped
func (s *Store) Remove(barcode string) int {
	s.mu.Lock()
	items := make([]domain.CartItem, 0, len(s.items))
	for _, it := range s.items {
		if it.Barcode != barcode {
			items = append(items, it.Clone())
		}
	}
	removed := len(s.items) - len(items)
	s.commit(items, false)
	return removed
}

// Clear empties the cart and deletes its blob
func (s *Store) Clear() {
	s.mu.Lock()
	s.commit([]domain.CartItem{}, true)
}

// Update merges patch into the entry with barcode
func (s *Store) Update(barcode string, patch domain.CartItemPatch) (domain.CartItem, bool) {
	s.mu.Lock()
	idx := -1
	for i, it := range s.items {
		if it.Barcode == barcode {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.CartItem{}, false
	}

	items := domain.CloneItems(s.items)
	items[idx] = patch.Apply(items[idx])
	updated := items[idx].Clone()
	s.commit(items, false)
	return updated, true
}

// Subscribe registers fn for every committed change
func (s *Store) Subscribe(fn func([]domain.CartItem)) func() {
	return s.changes.Subscribe(fn)
}

// Flush waits for queued writes
func (s *Store) Flush(ctx context.Context) error {
	return s.blob.Flush(ctx)
}

// Close drains queued writes and stops the writer
func (s *Store) Close() {
	s.blob.Close()
}
