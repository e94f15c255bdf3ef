package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/allergy-scan/internal/history/domain"
	"github.com/tair/allergy-scan/kafka"
	"github.com/tair/allergy-scan/pkg/logger"
)

// Recorder turns domain events into history entries
type Recorder struct {
	repo domain.EntryRepository
}

// NewRecorder creates a new recorder
func NewRecorder(repo domain.EntryRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Handle records event. It matches kafka.EventHandler.
func (r *Recorder) Handle(ctx context.Context, event kafka.Event) error {
	actions := Actions(event)
	for i, action := range actions {
		id := event.EventID
		if len(actions) > 1 {
			id = fmt.Sprintf("%s-%d", event.EventID, i)
		}
		entry := &domain.Entry{
			ID:         id,
			EventType:  event.EventType,
			Action:     action,
			OccurredAt: event.Timestamp,
		}
		if err := r.repo.Add(ctx, entry); err != nil {
			return fmt.Errorf("failed to record %s: %w", event.EventType, err)
		}
	}

	if len(actions) > 0 {
		logger.Debug(ctx).
			Str("event_type", event.EventType).
			Int("entries", len(actions)).
			Msg("Activity recorded")
	}
	return nil
}

// Actions describes event the way the history screen shows it
func Actions(event kafka.Event) []string {
	subject := event.Name
	if subject == "" {
		subject = event.Barcode
	}

	switch event.EventType {
	case kafka.EventTypeProfileSaved:
		return []string{"Profile Updated"}
	case kafka.EventTypeProfileCleared:
		return []string{"Logged Out"}
	case kafka.EventTypeAllergyAdded:
		out := make([]string, 0, len(event.Allergens))
		for _, a := range event.Allergens {
			out = append(out, "Allergy Added: "+a)
		}
		return out
	case kafka.EventTypeFamilyMemberAdded:
		return []string{"Family Member Added"}
	case kafka.EventTypeFamilyMemberRemove:
		return []string{"Family Member Removed"}
	case kafka.EventTypeFamilySaved:
		return []string{"Family Allergies Saved"}
	case kafka.EventTypeProductScanned:
		action := "Product Scanned: " + subject
		if len(event.Allergens) > 0 {
			action += " (contains " + strings.Join(event.Allergens, ", ") + ")"
		}
		return []string{action}
	case kafka.EventTypeCartItemAdded:
		return []string{"Added to Cart: " + subject}
	case kafka.EventTypeCartItemRemoved:
		return []string{"Removed from Cart: " + subject}
	case kafka.EventTypeCartItemUpdated:
		return []string{"Cart Item Updated: " + subject}
	case kafka.EventTypeCartCleared:
		return []string{"Cart Cleared"}
	}
	return nil
}
