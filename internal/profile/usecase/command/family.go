package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tair/allergy-scan/internal/allergen"
	"github.com/tair/allergy-scan/internal/profile/domain"
	"github.com/tair/allergy-scan/internal/profile/store"
	"github.com/tair/allergy-scan/kafka"
	"github.com/tair/allergy-scan/pkg/logger"
)

// ErrMemberNotFound is returned for an out-of-range family index
var ErrMemberNotFound = errors.New("family member not found")

// AddFamilyMemberCommand represents adding a member to the family list
type AddFamilyMemberCommand struct {
	Name      string
	Age       string
	Allergies []string
}

// AddFamilyMemberHandler handles add family member command
type AddFamilyMemberHandler struct {
	store     *store.Store
	registry  *allergen.Registry
	publisher kafka.EventPublisher
}

// NewAddFamilyMemberHandler creates a new add family member handler
func NewAddFamilyMemberHandler(s *store.Store, registry *allergen.Registry, publisher kafka.EventPublisher) *AddFamilyMemberHandler {
	return &AddFamilyMemberHandler{store: s, registry: registry, publisher: publisher}
}

// Handle executes the add family member command. Allergies of the new member
// reach the profile only through SaveFamily.
func (h *AddFamilyMemberHandler) Handle(ctx context.Context, cmd AddFamilyMemberCommand) ([]domain.FamilyMember, error) {
	member := domain.FamilyMember{
		Name:      strings.TrimSpace(cmd.Name),
		Age:       strings.TrimSpace(cmd.Age),
		Allergies: h.registry.Current().Canonicalize(cmd.Allergies),
	}
	if member.Name == "" || member.Age == "" {
		return nil, fmt.Errorf("%w: family member needs a name and an age", domain.ErrInvalidProfile)
	}

	st, err := h.store.Mutate(func(st *store.State) error {
		st.Family = append(st.Family, member)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, h.publisher, kafka.Event{EventType: kafka.EventTypeFamilyMemberAdded, Name: member.Name, Allergens: member.Allergies})
	return st.Family, nil
}

// RemoveFamilyMemberCommand represents removing the member at Index
type RemoveFamilyMemberCommand struct {
	Index int
}

// RemoveFamilyMemberHandler handles remove family member command
type RemoveFamilyMemberHandler struct {
	store     *store.Store
	publisher kafka.EventPublisher
}

// NewRemoveFamilyMemberHandler creates a new remove family member handler
func NewRemoveFamilyMemberHandler(s *store.Store, publisher kafka.EventPublisher) *RemoveFamilyMemberHandler {
	return &RemoveFamilyMemberHandler{store: s, publisher: publisher}
}

// Handle executes the remove command. Allergies already merged into the
// profile stay there.
func (h *RemoveFamilyMemberHandler) Handle(ctx context.Context, cmd RemoveFamilyMemberCommand) ([]domain.FamilyMember, error) {
	var removed domain.FamilyMember
	st, err := h.store.Mutate(func(st *store.State) error {
		if cmd.Index < 0 || cmd.Index >= len(st.Family) {
			return ErrMemberNotFound
		}
		removed = st.Family[cmd.Index]
		st.Family = append(st.Family[:cmd.Index], st.Family[cmd.Index+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, h.publisher, kafka.Event{EventType: kafka.EventTypeFamilyMemberRemove, Name: removed.Name})
	return st.Family, nil
}

// SaveFamilyCommand saves the family screen. When Members is set it replaces
// the family list first.
type SaveFamilyCommand struct {
	Members *[]domain.FamilyMember
}

// SaveFamilyHandler handles save family command
type SaveFamilyHandler struct {
	store     *store.Store
	registry  *allergen.Registry
	publisher kafka.EventPublisher
}

// NewSaveFamilyHandler creates a new save family handler
func NewSaveFamilyHandler(s *store.Store, registry *allergen.Registry, publisher kafka.EventPublisher) *SaveFamilyHandler {
	return &SaveFamilyHandler{store: s, registry: registry, publisher: publisher}
}

// Handle folds every member's allergies into the profile. The merge only
// adds. Without a profile, one holding just the merged allergies is created.
func (h *SaveFamilyHandler) Handle(ctx context.Context, cmd SaveFamilyCommand) (store.State, error) {
	vocab := h.registry.Current()

	var members []domain.FamilyMember
	if cmd.Members != nil {
		for i, m := range *cmd.Members {
			m.Name = strings.TrimSpace(m.Name)
			m.Age = strings.TrimSpace(m.Age)
			if m.Name == "" || m.Age == "" {
				return store.State{}, fmt.Errorf("%w: family member %d needs a name and an age", domain.ErrInvalidProfile, i)
			}
			m.Allergies = vocab.Canonicalize(m.Allergies)
			members = append(members, m)
		}
	}

	var before []string
	st, err := h.store.Mutate(func(st *store.State) error {
		if cmd.Members != nil {
			st.Family = members
		}
		if st.Profile == nil {
			st.Profile = &domain.UserProfile{}
		}
		before = st.Profile.Allergies
		st.Profile.Allergies = domain.MergeFamilyAllergies(st.Profile.Allergies, st.Family)
		return nil
	})
	if err != nil {
		return store.State{}, err
	}

	publish(ctx, h.publisher, kafka.Event{EventType: kafka.EventTypeFamilySaved, Allergens: st.Profile.Allergies})
	for _, a := range addedAllergies(before, st.Profile.Allergies) {
		publish(ctx, h.publisher, kafka.Event{EventType: kafka.EventTypeAllergyAdded, Allergens: []string{a}})
	}

	logger.Info(ctx).
		Int("family_members", len(st.Family)).
		Int("allergies", len(st.Profile.Allergies)).
		Msg("Family saved")
	return st, nil
}
