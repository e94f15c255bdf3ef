package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tair/allergy-scan/internal/profile/domain"
	"github.com/tair/allergy-scan/internal/state"
)

func flush(t *testing.T, s *Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
}

func TestStoreLoadsBlobs(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemory()
	kv.Set(ctx, state.KeyUserProfile, []byte(`{"name":"Ana","age":"34","allergies":["Milk"],"priority":"minimize"}`))
	kv.Set(ctx, state.KeyFamily, []byte(`[{"name":"Leo","age":"6","allergies":["Peanuts"]}]`))

	s := NewStore(kv)
	defer s.Close()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	p, ok := s.Profile()
	if !ok || p.Name != "Ana" || p.Priority != domain.PriorityMinimizeSymptoms {
		t.Fatalf("Profile() = %+v, %v", p, ok)
	}
	if fam := s.Family(); len(fam) != 1 || fam[0].Name != "Leo" {
		t.Fatalf("Family() = %+v", fam)
	}
}

func TestStoreLoadIgnoresCorruptBlob(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemory()
	kv.Set(ctx, state.KeyUserProfile, []byte(`{not json`))

	s := NewStore(kv)
	defer s.Close()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := s.Profile(); ok {
		t.Fatal("corrupt profile should load as absent")
	}
	if s.Family() == nil {
		t.Fatal("Family() should be empty, not nil")
	}
}

func TestStorePersistsWholeBlob(t *testing.T) {
	kv := state.NewMemory()
	s := NewStore(kv)
	defer s.Close()

	s.SetProfile(domain.UserProfile{Name: "Ana", Age: "34", Allergies: []string{"Milk"}, Priority: domain.PriorityFindSafeProducts})
	s.SetFamily([]domain.FamilyMember{{Name: "Leo", Age: "6"}})
	flush(t, s)

	raw, err := kv.Get(context.Background(), state.KeyUserProfile)
	if err != nil {
		t.Fatalf("profile blob: %v", err)
	}
	var p domain.UserProfile
	json.Unmarshal(raw, &p)
	if p.Name != "Ana" || p.Priority != "products" {
		t.Fatalf("stored profile %s", raw)
	}
	if _, err := kv.Get(context.Background(), state.KeyFamily); err != nil {
		t.Fatalf("family blob: %v", err)
	}
}

func TestStoreClearDeletesProfileBlobOnly(t *testing.T) {
	kv := state.NewMemory()
	s := NewStore(kv)
	defer s.Close()

	s.SetProfile(domain.UserProfile{Name: "Ana"})
	s.SetFamily([]domain.FamilyMember{{Name: "Leo", Age: "6"}})
	s.Clear()
	flush(t, s)

	if _, err := kv.Get(context.Background(), state.KeyUserProfile); !errors.Is(err, state.ErrNoValue) {
		t.Fatalf("profile blob still present: %v", err)
	}
	if _, err := kv.Get(context.Background(), state.KeyFamily); err != nil {
		t.Fatalf("family blob removed: %v", err)
	}
	if len(s.Family()) != 1 {
		t.Fatal("family list should survive logout")
	}
}

func TestStoreSubscribersSeeLatestValue(t *testing.T) {
	s := NewStore(state.NewMemory())
	defer s.Close()

	var seen []string
	unsubscribe := s.Subscribe(func(st State) {
		if st.Profile != nil {
			seen = append(seen, st.Profile.Name)
		}
		// Readers inside a callback see the committed value
		if p, ok := s.Profile(); ok && st.Profile != nil && p.Name != st.Profile.Name {
			t.Errorf("store returned %q during notify of %q", p.Name, st.Profile.Name)
		}
	})
	defer unsubscribe()

	s.SetProfile(domain.UserProfile{Name: "A"})
	s.SetProfile(domain.UserProfile{Name: "B"})
	if len(seen) != 2 || seen[1] != "B" {
		t.Fatalf("seen %v", seen)
	}
}

func TestMutateErrorLeavesStateUntouched(t *testing.T) {
	s := NewStore(state.NewMemory())
	defer s.Close()
	s.SetProfile(domain.UserProfile{Name: "A"})

	_, err := s.Mutate(func(st *State) error {
		st.Profile.Name = "changed"
		return errors.New("nope")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if p, _ := s.Profile(); p.Name != "A" {
		t.Fatalf("profile mutated to %q", p.Name)
	}
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s := NewStore(state.NewMemory())
	defer s.Close()
	s.SetProfile(domain.UserProfile{Name: "A", Allergies: []string{"Milk"}})

	p, _ := s.Profile()
	p.Allergies[0] = "Soy"
	if got := s.CurrentAllergies(); got[0] != "Milk" {
		t.Fatalf("store leaked its slice: %v", got)
	}
}
