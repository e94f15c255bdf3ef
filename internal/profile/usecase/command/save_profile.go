package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/allergy-scan/internal/allergen"
	"github.com/tair/allergy-scan/internal/profile/domain"
	"github.com/tair/allergy-scan/internal/profile/store"
	"github.com/tair/allergy-scan/kafka"
	"github.com/tair/allergy-scan/pkg/logger"
)

// SaveProfileCommand represents onboarding or a settings edit
type SaveProfileCommand struct {
	Name      string
	Age       string
	Allergies []string
	Priority  domain.Priority
}

// SaveProfileHandler handles save profile command
type SaveProfileHandler struct {
	store     *store.Store
	registry  *allergen.Registry
	publisher kafka.EventPublisher
}

// NewSaveProfileHandler creates a new save profile handler
func NewSaveProfileHandler(s *store.Store, registry *allergen.Registry, publisher kafka.EventPublisher) *SaveProfileHandler {
	return &SaveProfileHandler{store: s, registry: registry, publisher: publisher}
}

// Handle executes the save profile command
func (h *SaveProfileHandler) Handle(ctx context.Context, cmd SaveProfileCommand) (*domain.UserProfile, error) {
	profile := domain.UserProfile{
		Name:      strings.TrimSpace(cmd.Name),
		Age:       strings.TrimSpace(cmd.Age),
		Allergies: h.registry.Current().Canonicalize(cmd.Allergies),
		Priority:  cmd.Priority,
	}

	if profile.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidProfile)
	}
	if profile.Age == "" {
		return nil, fmt.Errorf("%w: age is required", domain.ErrInvalidProfile)
	}
	if len(profile.Allergies) == 0 {
		return nil, fmt.Errorf("%w: select at least one allergy", domain.ErrInvalidProfile)
	}
	if !profile.Priority.Valid() {
		return nil, fmt.Errorf("%w: priority must be %q or %q", domain.ErrInvalidProfile,
			domain.PriorityMinimizeSymptoms, domain.PriorityFindSafeProducts)
	}

	previous, _ := h.store.Profile()
	h.store.SetProfile(profile)

	publish(ctx, h.publisher, kafka.Event{EventType: kafka.EventTypeProfileSaved, Name: profile.Name, Allergens: profile.Allergies})
	for _, a := range addedAllergies(previous.Allergies, profile.Allergies) {
		publish(ctx, h.publisher, kafka.Event{EventType: kafka.EventTypeAllergyAdded, Allergens: []string{a}})
	}

	logger.Info(ctx).
		Int("allergies", len(profile.Allergies)).
		Str("priority", string(profile.Priority)).
		Msg("Profile saved")
	return &profile, nil
}

// addedAllergies lists the entries of next missing from prev, case-insensitively
func addedAllergies(prev, next []string) []string {
	had := make(map[string]bool, len(prev))
	for _, a := range prev {
		had[strings.ToLower(a)] = true
	}
	var added []string
	for _, a := range next {
		if !had[strings.ToLower(a)] {
			added = append(added, a)
		}
	}
	return added
}

// publish sends an event; failures are logged and never fail the command
func publish(ctx context.Context, publisher kafka.EventPublisher, event kafka.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn(ctx).Err(err).Str("event_type", event.EventType).Msg("Failed to publish event")
	}
}
