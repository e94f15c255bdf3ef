package query

import (
	"context"
	"strings"

	"github.com/tair/allergy-scan/internal/allergen"
	"github.com/tair/allergy-scan/internal/product/domain"
	"github.com/tair/allergy-scan/kafka"
	"github.com/tair/allergy-scan/pkg/logger"
	"github.com/tair/allergy-scan/pkg/metrics"
)

// AllergenSource yields the allergen list the scanner checks against
type AllergenSource interface {
	CurrentAllergies() []string
}

// ScanProductQuery represents a scan of barcode on a screen
type ScanProductQuery struct {
	Barcode string
	Screen  string
	Retry   bool
}

// ScanProductHandler looks a product up and runs the matcher over it
type ScanProductHandler struct {
	lookups   *ScreenLookups
	allergies AllergenSource
	publisher kafka.EventPublisher
}

// NewScanProductHandler creates a new scan handler
func NewScanProductHandler(
	lookups *ScreenLookups,
	allergies AllergenSource,
	publisher kafka.EventPublisher,
) *ScanProductHandler {
	return &ScanProductHandler{
		lookups:   lookups,
		allergies: allergies,
		publisher: publisher,
	}
}

// Handle executes the scan. The allergen list is read after the lookup
// completes so the newest committed profile is used.
func (h *ScanProductHandler) Handle(ctx context.Context, q ScanProductQuery) (*domain.ScanResult, error) {
	var (
		result domain.LookupResult
		err    error
	)
	if q.Retry {
		result, err = h.lookups.Retry(ctx, q.Screen, q.Barcode)
	} else {
		result, err = h.lookups.Start(ctx, q.Screen, q.Barcode)
	}
	if err != nil {
		return nil, err
	}

	scan := &domain.ScanResult{
		Barcode:  result.Barcode,
		Outcome:  result.Outcome,
		Attempts: result.Attempts,
		Message:  result.Message(),
	}
	if result.Outcome != domain.OutcomeFound {
		return scan, nil
	}

	record := result.Record
	// Literal matching only; synonym expansion stays opt-in on /api/allergens/detect
	detected := allergen.DetectAllergens(record.MatchText(), h.allergies.CurrentAllergies())
	for _, a := range detected {
		metrics.AllergenDetections.WithLabelValues(a).Inc()
	}
	scan.Annotated = &domain.AnnotatedProduct{
		Product:           record,
		DetectedAllergens: detected,
		Ingredients:       record.DisplayIngredients(),
		Safe:              len(detected) == 0,
	}

	event := kafka.Event{
		EventType: kafka.EventTypeProductScanned,
		Barcode:   record.Barcode,
		Name:      record.Name,
		Allergens: detected,
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Str("barcode", record.Barcode).Msg("Failed to publish scan event")
	}

	logger.Info(ctx).
		Str("barcode", record.Barcode).
		Str("detected", strings.Join(detected, ",")).
		Int("attempts", result.Attempts).
		Msg("Product scanned")
	return scan, nil
}
