package query

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tair/allergy-scan/internal/product/domain"
	"github.com/tair/allergy-scan/pkg/logger"
	"github.com/tair/allergy-scan/pkg/metrics"
)

// RetryPolicy bounds the lookup loop: one initial attempt plus MaxRetries,
// with a fixed Delay between attempts.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
}

// DefaultRetryPolicy retries twice, one second apart
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, Delay: time.Second}
}

// LookupProductQuery represents the query to look up a product by barcode
type LookupProductQuery struct {
	Barcode string
}

// ProductLookup is satisfied by LookupProductHandler
type ProductLookup interface {
	Handle(ctx context.Context, query LookupProductQuery) (domain.LookupResult, error)
}

// LookupProductHandler runs the bounded retry loop over a Fetcher
type LookupProductHandler struct {
	fetcher domain.Fetcher
	policy  RetryPolicy
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewLookupProductHandler creates a new lookup handler
func NewLookupProductHandler(fetcher domain.Fetcher, policy RetryPolicy) *LookupProductHandler {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	return &LookupProductHandler{
		fetcher: fetcher,
		policy:  policy,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Handle executes the lookup. NotFound and transient failures are retried;
// the outcome reflects the last attempt. An error is returned only for a blank
// barcode or a cancelled context.
func (h *LookupProductHandler) Handle(ctx context.Context, query LookupProductQuery) (domain.LookupResult, error) {
	barcode := strings.TrimSpace(query.Barcode)
	if barcode == "" {
		return domain.LookupResult{}, domain.ErrInvalidBarcode
	}

	result := domain.LookupResult{Barcode: barcode}
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := h.sleep(ctx, h.policy.Delay); err != nil {
				return result, err
			}
		}

		result.Attempts = attempt + 1
		record, err := h.fetcher.Fetch(ctx, barcode)
		if err == nil {
			result.Outcome = domain.OutcomeFound
			result.Record = record
			result.Err = nil
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}

		result.Err = err
		if errors.Is(err, domain.ErrNotFound) {
			result.Outcome = domain.OutcomeNotFound
		} else {
			result.Outcome = domain.OutcomeError
		}

		logger.Warn(ctx).
			Err(err).
			Str("barcode", barcode).
			Int("attempt", result.Attempts).
			Msg("Product lookup attempt failed")

		if attempt >= h.policy.MaxRetries {
			break
		}
	}

	metrics.LookupResults.WithLabelValues(string(result.Outcome)).Inc()
	return result, nil
}
