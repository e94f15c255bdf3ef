package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tair/allergy-scan/internal/profile/domain"
	"github.com/tair/allergy-scan/internal/state"
	"github.com/tair/allergy-scan/pkg/logger"
)

// State is the profile store's value: the device owner's profile, if
// onboarded, and the family list.
type State struct {
	Profile *domain.UserProfile   `json:"profile"`
	Family  []domain.FamilyMember `json:"family"`
}

func (s State) clone() State {
	out := State{Family: domain.CloneFamily(s.Family)}
	if s.Profile != nil {
		p := s.Profile.Clone()
		out.Profile = &p
	}
	return out
}

// Store is the single shared profile and family store. Reads always see the
// latest committed value; every change rewrites the affected blob.
type Store struct {
	kv state.KV

	mu      sync.RWMutex
	current State

	profileBlob *state.Persister
	familyBlob  *state.Persister
	changes     state.Observable[State]
}

// NewStore creates an empty store writing through kv
func NewStore(kv state.KV) *Store {
	return &Store{
		kv:          kv,
		current:     State{Family: []domain.FamilyMember{}},
		profileBlob: state.NewPersister(kv, "profile", state.KeyUserProfile),
		familyBlob:  state.NewPersister(kv, "family", state.KeyFamily),
	}
}

// Load reads both blobs once at startup. A blob that cannot be read or decoded
// is logged and treated as absent.
func (s *Store) Load(ctx context.Context) error {
	var (
		profile domain.UserProfile
		family  []domain.FamilyMember
	)

	hasProfile, err := state.LoadJSON(ctx, s.kv, state.KeyUserProfile, &profile)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Ignoring stored profile")
		hasProfile = false
	}
	if _, err := state.LoadJSON(ctx, s.kv, state.KeyFamily, &family); err != nil {
		logger.Warn(ctx).Err(err).Msg("Ignoring stored family list")
		family = nil
	}
	if family == nil {
		family = []domain.FamilyMember{}
	}

	s.mu.Lock()
	s.current = State{Family: family}
	if hasProfile {
		s.current.Profile = &profile
	}
	snapshot := s.current.clone()
	s.mu.Unlock()

	logger.Info(ctx).
		Bool("profile", hasProfile).
		Int("family_members", len(family)).
		Msg("Profile store loaded")
	s.changes.Notify(snapshot)
	return nil
}

// Snapshot returns a copy of the current value
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Profile returns the current profile and whether one exists
func (s *Store) Profile() (domain.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.Profile == nil {
		return domain.UserProfile{}, false
	}
	return s.current.Profile.Clone(), true
}

// Family returns the current family list
func (s *Store) Family() []domain.FamilyMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneFamily(s.current.Family)
}

// CurrentAllergies returns the profile's allergen list, empty without a profile
func (s *Store) CurrentAllergies() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current.Profile == nil {
		return []string{}
	}
	return append([]string(nil), s.current.Profile.Allergies...)
}

// Mutate applies fn to a copy of the current value and commits it when fn
// succeeds. Changed blobs are queued for persistence before the lock is
// released, so writes follow mutation order.
func (s *Store) Mutate(fn func(st *State) error) (State, error) {
	s.mu.Lock()
	next := s.current.clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return State{}, err
	}
	if next.Family == nil {
		next.Family = []domain.FamilyMember{}
	}

	if err := s.persist(s.current, next); err != nil {
		s.mu.Unlock()
		return State{}, err
	}
	s.current = next
	snapshot := next.clone()
	s.mu.Unlock()

	s.changes.Notify(snapshot)
	return snapshot, nil
}

func (s *Store) persist(prev, next State) error {
	var blobs [4][]byte
	for i, v := range []interface{}{prev.Profile, next.Profile, prev.Family, next.Family} {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode profile state: %w", err)
		}
		blobs[i] = b
	}

	if !bytes.Equal(blobs[0], blobs[1]) {
		if next.Profile == nil {
			s.profileBlob.Remove()
		} else {
			s.profileBlob.Save(blobs[1])
		}
	}
	if !bytes.Equal(blobs[2], blobs[3]) {
		s.familyBlob.Save(blobs[3])
	}
	return nil
}

// SetProfile replaces the profile
func (s *Store) SetProfile(p domain.UserProfile) State {
	st, _ := s.Mutate(func(st *State) error {
		p = p.Clone()
		st.Profile = &p
		return nil
	})
	return st
}

// SetFamily replaces the family list
func (s *Store) SetFamily(members []domain.FamilyMember) State {
	st, _ := s.Mutate(func(st *State) error {
		st.Family = domain.CloneFamily(members)
		return nil
	})
	return st
}

// Clear drops the profile. The family list is kept.
func (s *Store) Clear() State {
	st, _ := s.Mutate(func(st *State) error {
		st.Profile = nil
		return nil
	})
	return st
}

// Subscribe registers fn for every committed change
func (s *Store) Subscribe(fn func(State)) func() {
	return s.changes.Subscribe(fn)
}

// Flush waits for queued writes of both blobs
func (s *Store) Flush(ctx context.Context) error {
	if err := s.profileBlob.Flush(ctx); err != nil {
		return err
	}
	return s.familyBlob.Flush(ctx)
}

// Close drains queued writes and stops the writers
func (s *Store) Close() {
	s.profileBlob.Close()
	s.familyBlob.Close()
}
