package domain

import (
	"reflect"
	"testing"
)

func TestMergeFamilyAllergies(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		members  []FamilyMember
		want     []string
	}{
		{
			name:     "union without duplicates",
			existing: []string{"Milk"},
			members: []FamilyMember{
				{Allergies: []string{"Peanuts"}},
				{Allergies: []string{"Milk", "Soy"}},
			},
			want: []string{"Milk", "Peanuts", "Soy"},
		},
		{
			name:     "case insensitive keeps first spelling",
			existing: []string{"tree nuts"},
			members:  []FamilyMember{{Allergies: []string{"Tree Nuts", " Eggs "}}},
			want:     []string{"Eggs", "tree nuts"},
		},
		{
			name: "empty",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeFamilyAllergies(tt.existing, tt.members)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("MergeFamilyAllergies() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeIsSuperset(t *testing.T) {
	members := []FamilyMember{{Allergies: []string{"Fish"}}, {Allergies: []string{"Wheat", "Fish"}}}
	merged := MergeFamilyAllergies([]string{"Soy"}, members)

	have := make(map[string]bool)
	for _, a := range merged {
		have[a] = true
	}
	for _, m := range members {
		for _, a := range m.Allergies {
			if !have[a] {
				t.Fatalf("%s missing from %v", a, merged)
			}
		}
	}
}

func TestPriorityValid(t *testing.T) {
	if !PriorityMinimizeSymptoms.Valid() || !PriorityFindSafeProducts.Valid() {
		t.Fatal("known priorities should be valid")
	}
	if Priority("").Valid() || Priority("other").Valid() {
		t.Fatal("unknown priority accepted")
	}
}
