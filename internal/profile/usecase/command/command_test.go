package command

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tair/allergy-scan/internal/allergen"
	"github.com/tair/allergy-scan/internal/profile/domain"
	"github.com/tair/allergy-scan/internal/profile/store"
	"github.com/tair/allergy-scan/internal/state"
	"github.com/tair/allergy-scan/kafka"
)

type recordingPublisher struct {
	events []kafka.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e kafka.Event) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	var out []string
	for _, e := range p.events {
		out = append(out, e.EventType)
	}
	return out
}

func setup(t *testing.T) (*store.Store, *allergen.Registry, *recordingPublisher) {
	t.Helper()
	s := store.NewStore(state.NewMemory())
	t.Cleanup(s.Close)
	return s, allergen.NewRegistry(allergen.Default()), &recordingPublisher{}
}

func TestSaveProfileValidation(t *testing.T) {
	s, reg, pub := setup(t)
	h := NewSaveProfileHandler(s, reg, pub)

	valid := SaveProfileCommand{Name: "Ana", Age: "34", Allergies: []string{"milk"}, Priority: domain.PriorityMinimizeSymptoms}
	tests := []struct {
		name   string
		mutate func(c *SaveProfileCommand)
	}{
		{"missing name", func(c *SaveProfileCommand) { c.Name = " " }},
		{"missing age", func(c *SaveProfileCommand) { c.Age = "" }},
		{"no allergies", func(c *SaveProfileCommand) { c.Allergies = []string{""} }},
		{"bad priority", func(c *SaveProfileCommand) { c.Priority = "whatever" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := valid
			tt.mutate(&cmd)
			if _, err := h.Handle(context.Background(), cmd); !errors.Is(err, domain.ErrInvalidProfile) {
				t.Fatalf("Handle() error = %v, want ErrInvalidProfile", err)
			}
		})
	}
	if _, ok := s.Profile(); ok {
		t.Fatal("invalid commands must not mutate the store")
	}

	p, err := h.Handle(context.Background(), valid)
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if !reflect.DeepEqual(p.Allergies, []string{"Milk"}) {
		t.Fatalf("allergies = %v, want canonical [Milk]", p.Allergies)
	}
	if got := pub.types(); !reflect.DeepEqual(got, []string{kafka.EventTypeProfileSaved, kafka.EventTypeAllergyAdded}) {
		t.Fatalf("events = %v", got)
	}
}

func TestSaveFamilyMergesOneWay(t *testing.T) {
	s, reg, pub := setup(t)
	s.SetProfile(domain.UserProfile{Name: "Ana", Age: "34", Allergies: []string{"Milk"}, Priority: domain.PriorityMinimizeSymptoms})

	add := NewAddFamilyMemberHandler(s, reg, pub)
	remove := NewRemoveFamilyMemberHandler(s, pub)
	save := NewSaveFamilyHandler(s, reg, pub)
	ctx := context.Background()

	if _, err := add.Handle(ctx, AddFamilyMemberCommand{Name: "Leo", Age: "6", Allergies: []string{"Peanuts"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := add.Handle(ctx, AddFamilyMemberCommand{Name: "Mia", Age: "9", Allergies: []string{"Milk", "Soy"}}); err != nil {
		t.Fatal(err)
	}

	// Adding members alone does not touch the profile
	if got := s.CurrentAllergies(); !reflect.DeepEqual(got, []string{"Milk"}) {
		t.Fatalf("allergies before save = %v", got)
	}

	st, err := save.Handle(ctx, SaveFamilyCommand{})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"Milk", "Peanuts", "Soy"}; !reflect.DeepEqual(st.Profile.Allergies, want) {
		t.Fatalf("merged = %v, want %v", st.Profile.Allergies, want)
	}

	// Removing a member keeps merged allergies, even after another save
	if _, err := remove.Handle(ctx, RemoveFamilyMemberCommand{Index: 0}); err != nil {
		t.Fatal(err)
	}
	if _, err := save.Handle(ctx, SaveFamilyCommand{}); err != nil {
		t.Fatal(err)
	}
	if got := s.CurrentAllergies(); !reflect.DeepEqual(got, []string{"Milk", "Peanuts", "Soy"}) {
		t.Fatalf("allergies after removal = %v", got)
	}
	if fam := s.Family(); len(fam) != 1 || fam[0].Name != "Mia" {
		t.Fatalf("family = %+v", fam)
	}
}

func TestAddFamilyMemberRequiresNameAndAge(t *testing.T) {
	s, reg, pub := setup(t)
	_, err := NewAddFamilyMemberHandler(s, reg, pub).Handle(context.Background(), AddFamilyMemberCommand{Name: "Leo"})
	if !errors.Is(err, domain.ErrInvalidProfile) {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(s.Family()) != 0 {
		t.Fatal("member added despite validation failure")
	}
}

func TestRemoveFamilyMemberOutOfRange(t *testing.T) {
	s, _, pub := setup(t)
	_, err := NewRemoveFamilyMemberHandler(s, pub).Handle(context.Background(), RemoveFamilyMemberCommand{Index: 3})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("Handle() error = %v", err)
	}
}

func TestSaveFamilyWithoutProfile(t *testing.T) {
	s, reg, pub := setup(t)
	members := []domain.FamilyMember{{Name: "Leo", Age: "6", Allergies: []string{"eggs"}}}

	st, err := NewSaveFamilyHandler(s, reg, pub).Handle(context.Background(), SaveFamilyCommand{Members: &members})
	if err != nil {
		t.Fatal(err)
	}
	if st.Profile == nil || !reflect.DeepEqual(st.Profile.Allergies, []string{"Eggs"}) {
		t.Fatalf("profile = %+v", st.Profile)
	}
}

func TestLogoutKeepsFamily(t *testing.T) {
	s, _, pub := setup(t)
	s.SetProfile(domain.UserProfile{Name: "Ana"})
	s.SetFamily([]domain.FamilyMember{{Name: "Leo", Age: "6"}})

	NewLogoutHandler(s, pub).Handle(context.Background())
	if _, ok := s.Profile(); ok {
		t.Fatal("profile survived logout")
	}
	if len(s.Family()) != 1 {
		t.Fatal("family cleared by logout")
	}
}
