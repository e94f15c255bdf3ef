package query

import (
	"context"
	"errors"
	"sync"

	"github.com/tair/allergy-scan/internal/product/domain"
)

var (
	// ErrLookupInFlight is returned when the screen already has a lookup running
	ErrLookupInFlight = errors.New("a lookup is already in flight for this screen")
	// ErrLookupDiscarded is returned to a lookup whose screen was closed or
	// which a manual retry superseded
	ErrLookupDiscarded = errors.New("lookup result discarded")
)

type screenSlot struct {
	gen      uint64
	inFlight bool
	closed   bool
	cancel   context.CancelFunc
}

// ScreenLookups allows one lookup in flight per screen and drops results
// that arrive after the screen was torn down or the lookup superseded.
// A screen is tracked only while its lookup runs.
type ScreenLookups struct {
	lookup ProductLookup

	mu      sync.Mutex
	screens map[string]*screenSlot
}

// NewScreenLookups creates the per-screen lookup tracker
func NewScreenLookups(lookup ProductLookup) *ScreenLookups {
	return &ScreenLookups{
		lookup:  lookup,
		screens: make(map[string]*screenSlot),
	}
}

// Start runs a lookup for screen. It fails with ErrLookupInFlight when one
// is already running. An empty screen is not tracked.
func (s *ScreenLookups) Start(ctx context.Context, screen, barcode string) (domain.LookupResult, error) {
	return s.run(ctx, screen, barcode, false)
}

// Retry is the manual "try again": any running lookup for the screen is
// cancelled and a fresh attempt sequence begins.
func (s *ScreenLookups) Retry(ctx context.Context, screen, barcode string) (domain.LookupResult, error) {
	return s.run(ctx, screen, barcode, true)
}

// Close tears the screen down. A lookup still running for it is cancelled
// and its result discarded.
func (s *ScreenLookups) Close(screen string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.screens[screen]
	if !ok {
		return
	}
	slot.closed = true
	if slot.cancel != nil {
		slot.cancel()
	}
	delete(s.screens, screen)
}

// InFlight reports whether the screen has a running lookup
func (s *ScreenLookups) InFlight(screen string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.screens[screen]
	return ok && slot.inFlight
}

// Len reports how many screens are tracked
func (s *ScreenLookups) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.screens)
}

func (s *ScreenLookups) run(ctx context.Context, screen, barcode string, supersede bool) (domain.LookupResult, error) {
	if screen == "" {
		return s.lookup.Handle(ctx, LookupProductQuery{Barcode: barcode})
	}

	s.mu.Lock()
	slot, ok := s.screens[screen]
	if !ok {
		slot = &screenSlot{}
		s.screens[screen] = slot
	}
	if slot.inFlight {
		if !supersede {
			s.mu.Unlock()
			return domain.LookupResult{}, ErrLookupInFlight
		}
		slot.cancel()
	}
	slot.gen++
	gen := slot.gen
	ctx, cancel := context.WithCancel(ctx)
	slot.cancel = cancel
	slot.inFlight = true
	s.mu.Unlock()

	result, err := s.lookup.Handle(ctx, LookupProductQuery{Barcode: barcode})

	s.mu.Lock()
	defer s.mu.Unlock()
	cancel()
	if slot.closed || slot.gen != gen {
		return domain.LookupResult{}, ErrLookupDiscarded
	}
	slot.inFlight = false
	slot.cancel = nil
	if s.screens[screen] == slot {
		delete(s.screens, screen)
	}
	return result, err
}
