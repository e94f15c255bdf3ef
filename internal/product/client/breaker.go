package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tair/allergy-scan/internal/product/domain"
	"github.com/tair/allergy-scan/pkg/logger"
)

// CircuitState represents the state of a circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"    // Normal operation
	StateOpen     CircuitState = "open"      // Failing fast
	StateHalfOpen CircuitState = "half-open" // Probing the upstream
)

// ErrCircuitOpen is returned while the breaker is failing fast. It wraps
// domain.ErrTransient so the retry policy treats it like any network error.
var ErrCircuitOpen = fmt.Errorf("%w: circuit breaker is open", domain.ErrTransient)

// BreakerFetcher stops calling the upstream after maxFailures consecutive
// transient failures and probes it again after cooldown. NotFound is a valid
// answer and counts as success.
type BreakerFetcher struct {
	next        domain.Fetcher
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time

	mu              sync.Mutex
	state           CircuitState
	failures        int
	lastStateChange time.Time
}

// NewBreakerFetcher wraps next with a circuit breaker
func NewBreakerFetcher(next domain.Fetcher, maxFailures int, cooldown time.Duration) *BreakerFetcher {
	return &BreakerFetcher{
		next:            next,
		maxFailures:     maxFailures,
		cooldown:        cooldown,
		now:             time.Now,
		state:           StateClosed,
		lastStateChange: time.Now(),
	}
}

// Fetch calls the wrapped fetcher unless the circuit is open
func (b *BreakerFetcher) Fetch(ctx context.Context, barcode string) (*domain.ProductRecord, error) {
	b.mu.Lock()
	if b.state == StateOpen && b.now().Sub(b.lastStateChange) >= b.cooldown {
		b.setState(StateHalfOpen)
	}
	state := b.state
	b.mu.Unlock()

	if state == StateOpen {
		return nil, ErrCircuitOpen
	}

	record, err := b.next.Fetch(ctx, barcode)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil && errors.Is(err, domain.ErrTransient) {
		b.onFailure()
	} else {
		b.onSuccess()
	}
	return record, err
}

func (b *BreakerFetcher) onFailure() {
	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.maxFailures {
		b.setState(StateOpen)
		logger.Logger.Warn().
			Int("failures", b.failures).
			Int("threshold", b.maxFailures).
			Msg("Product API circuit breaker opened")
	}
}

func (b *BreakerFetcher) onSuccess() {
	if b.state == StateHalfOpen {
		logger.Logger.Info().Msg("Product API circuit breaker closed after successful probe")
		b.setState(StateClosed)
	}
	b.failures = 0
}

func (b *BreakerFetcher) setState(s CircuitState) {
	b.state = s
	b.lastStateChange = b.now()
}

// State returns the current state
func (b *BreakerFetcher) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
