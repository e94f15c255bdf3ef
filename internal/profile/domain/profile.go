package domain

import (
	"errors"
	"sort"
	"strings"
)

// Priority is what the user wants the app to focus on
type Priority string

// Stored values match the onboarding form
const (
	PriorityMinimizeSymptoms Priority = "minimize"
	PriorityFindSafeProducts Priority = "products"
)

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	return p == PriorityMinimizeSymptoms || p == PriorityFindSafeProducts
}

// ErrInvalidProfile wraps every validation failure
var ErrInvalidProfile = errors.New("invalid profile")

// UserProfile is the device owner's profile
type UserProfile struct {
	Name      string   `json:"name"`
	Age       string   `json:"age"`
	Allergies []string `json:"allergies"`
	Priority  Priority `json:"priority"`
}

// Clone returns a deep copy
func (p UserProfile) Clone() UserProfile {
	p.Allergies = append([]string(nil), p.Allergies...)
	return p
}

// FamilyMember is an entry of the family list
type FamilyMember struct {
	Name      string   `json:"name"`
	Age       string   `json:"age"`
	Allergies []string `json:"allergies"`
}

// Clone returns a deep copy
func (m FamilyMember) Clone() FamilyMember {
	m.Allergies = append([]string(nil), m.Allergies...)
	return m
}

// CloneFamily deep-copies a family list
func CloneFamily(members []FamilyMember) []FamilyMember {
	out := make([]FamilyMember, len(members))
	for i, m := range members {
		out[i] = m.Clone()
	}
	return out
}

// MergeFamilyAllergies returns the union of existing and every member's
// allergies. Duplicates are detected case-insensitively and the first-seen
// spelling wins. The result is sorted so repeated merges are stable.
func MergeFamilyAllergies(existing []string, members []FamilyMember) []string {
	seen := make(map[string]bool)
	var merged []string
	add := func(names []string) {
		for _, n := range names {
			n = strings.TrimSpace(n)
			key := strings.ToLower(n)
			if n == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, n)
		}
	}

	add(existing)
	for _, m := range members {
		add(m.Allergies)
	}

	sort.Slice(merged, func(i, j int) bool {
		return strings.ToLower(merged[i]) < strings.ToLower(merged[j])
	})
	if merged == nil {
		merged = []string{}
	}
	return merged
}
