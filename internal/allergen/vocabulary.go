// Package allergen holds the allergen reference data and the ingredient matcher.
package allergen

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Allergen is a canonical allergen and the keywords that also indicate it
type Allergen struct {
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms,omitempty"`
}

// Vocabulary is an immutable set of canonical allergens. The zero value is empty.
type Vocabulary struct {
	allergens []Allergen
	index     map[string]string
}

var titleCaser = cases.Title(language.English)

// TitleCase renders an allergen name in its display form
func TitleCase(name string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(name)))
}

// NewVocabulary builds a vocabulary. Names are title-cased and synonyms
// lower-cased; a name or synonym claimed twice keeps its first owner.
func NewVocabulary(allergens []Allergen) Vocabulary {
	v := Vocabulary{index: make(map[string]string)}
	for _, a := range allergens {
		name := TitleCase(a.Name)
		if name == "" {
			continue
		}
		if _, dup := v.index[strings.ToLower(name)]; dup {
			continue
		}

		entry := Allergen{Name: name}
		v.index[strings.ToLower(name)] = name
		for _, s := range a.Synonyms {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" {
				continue
			}
			if _, taken := v.index[s]; taken {
				continue
			}
			v.index[s] = name
			entry.Synonyms = append(entry.Synonyms, s)
		}
		v.allergens = append(v.allergens, entry)
	}
	return v
}

// Default is the built-in vocabulary of selectable allergens
func Default() Vocabulary {
	return NewVocabulary([]Allergen{
		{Name: "Peanuts", Synonyms: []string{"peanut", "groundnut", "arachis"}},
		{Name: "Milk", Synonyms: []string{"dairy", "lactose", "whey", "casein"}},
		{Name: "Eggs", Synonyms: []string{"egg", "albumin", "ovalbumin"}},
		{Name: "Tree Nuts", Synonyms: []string{"tree nut", "almond", "cashew", "hazelnut", "walnut", "pecan", "pistachio", "macadamia"}},
		{Name: "Soy", Synonyms: []string{"soya", "soybean"}},
		{Name: "Wheat", Synonyms: []string{"gluten", "spelt", "semolina"}},
		{Name: "Fish", Synonyms: []string{"salmon", "tuna", "cod", "anchovy"}},
		{Name: "Shellfish", Synonyms: []string{"crustacean", "shrimp", "prawn", "crab", "lobster"}},
	})
}

// Names returns the canonical names in declaration order
func (v Vocabulary) Names() []string {
	names := make([]string, len(v.allergens))
	for i, a := range v.allergens {
		names[i] = a.Name
	}
	return names
}

// Allergens returns a copy of every entry
func (v Vocabulary) Allergens() []Allergen {
	out := make([]Allergen, len(v.allergens))
	for i, a := range v.allergens {
		out[i] = Allergen{Name: a.Name, Synonyms: append([]string(nil), a.Synonyms...)}
	}
	return out
}

// Len returns the number of canonical allergens
func (v Vocabulary) Len() int {
	return len(v.allergens)
}

// Canonical resolves a case-insensitive name or synonym to its display name
func (v Vocabulary) Canonical(name string) (string, bool) {
	canonical, ok := v.index[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// Canonicalize maps every name to its canonical form, title-casing unknown
// names, and drops blanks and case-insensitive duplicates.
func (v Vocabulary) Canonicalize(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		c, ok := v.Canonical(n)
		if !ok {
			c = TitleCase(n)
		}
		key := strings.ToLower(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// terms returns the lower-cased keywords that indicate the named allergen:
// the name itself plus, when known, its canonical name and synonyms.
func (v Vocabulary) terms(name string) []string {
	name = strings.ToLower(strings.TrimSpace(name))
	canonical, ok := v.index[name]
	if !ok {
		return []string{name}
	}
	out := []string{name}
	for _, a := range v.allergens {
		if a.Name != canonical {
			continue
		}
		if c := strings.ToLower(a.Name); c != name {
			out = append(out, c)
		}
		for _, s := range a.Synonyms {
			if s != name {
				out = append(out, s)
			}
		}
	}
	return out
}
